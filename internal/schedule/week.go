package schedule

import (
	"sort"
	"time"
)

// WeekDay - день календарной недели (пн-вс) с подписью
type WeekDay struct {
	Label   string // "Mon" ... "Sun"
	Date    DateStamp
	Weekday time.Weekday
}

var shortWeekdays = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// ShortWeekday возвращает трёхбуквенное английское название дня
func ShortWeekday(d time.Weekday) string {
	if d < time.Sunday || d > time.Saturday {
		return "?"
	}
	return shortWeekdays[d]
}

// CurrentWeek возвращает семь дней недели, в которую попадает now, начиная
// с понедельника. Воскресенье относится к неделе, начавшейся шестью днями ранее.
func CurrentWeek(now time.Time) []WeekDay {
	today := DateOf(now)
	offset := int(today.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset = 6
	}
	monday := today.AddDays(-offset)

	week := make([]WeekDay, 0, 7)
	for i := 0; i < 7; i++ {
		d := monday.AddDays(i)
		wd := d.Weekday()
		week = append(week, WeekDay{Label: ShortWeekday(wd), Date: d, Weekday: wd})
	}
	return week
}

// DateGroup - элементы одного календарного дня
type DateGroup[T any] struct {
	Date    DateStamp
	Weekday string
	Items   []T
}

// GroupByDate группирует элементы по дате "dd-mm-yyyy" и сортирует группы
// по времени. Внутри группы порядок элементов сохраняется.
func GroupByDate[T any](items []T, dateOf func(T) string) ([]DateGroup[T], error) {
	index := make(map[DateStamp]int)
	var groups []DateGroup[T]

	for _, it := range items {
		d, err := ParseDate(dateOf(it))
		if err != nil {
			return nil, err
		}
		i, ok := index[d]
		if !ok {
			i = len(groups)
			index[d] = i
			groups = append(groups, DateGroup[T]{Date: d, Weekday: d.Weekday().String()})
		}
		groups[i].Items = append(groups[i].Items, it)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Date.Before(groups[b].Date)
	})
	return groups, nil
}
