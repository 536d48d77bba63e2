package model

import (
	"time"
)

// dateLayout はDATE列のJSON表現。
const dateLayout = "2006-01-02"

// Date は時刻を持たない日付（PostgreSQLのDATE列）を表す。
type Date struct {
	time.Time
}

// NewDate は年月日からDateを生成する。
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateFromTime はtime.Timeの日付部分のみを取り出したDateを返す。
func DateFromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// String は"2006-01-02"形式の文字列を返す。
func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON は"2006-01-02"形式のJSON文字列を返す。
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON は"2006-01-02"形式のJSON文字列を読み込む。
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	t, err := time.Parse(`"`+dateLayout+`"`, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
