// Package period содержит календарную арифметику биллинга:
// добавление календарного месяца и счёт суток по миллисекундным
// разницам с округлением вверх или вниз.
package period

import "time"

const day = 24 * time.Hour

// AddMonth добавляет один календарный месяц по правилам time.AddDate:
// 31 января + месяц нормализуется во 2-3 марта. Правило одно на весь
// биллинг, иначе границы пробного периода и оплат разъезжаются.
func AddMonth(t time.Time) time.Time {
	return t.AddDate(0, 1, 0)
}

// CeilDays считает d в сутках с округлением вверх по модулю к нулю
// сверху: неполные сутки засчитываются как целые. Для отрицательных
// значений это математический ceil: -3.5 суток дают -3.
func CeilDays(d time.Duration) int {
	ms := d.Milliseconds()
	dayMs := day.Milliseconds()
	if ms >= 0 {
		return int((ms + dayMs - 1) / dayMs)
	}
	return -int(-ms / dayMs)
}

// FloorDays считает d в сутках с округлением вниз: неполные сутки
// отбрасываются. Используется для счётчика дней после конца пробного
// периода, чтобы первый день просрочки наступал только на следующие
// календарные сутки.
func FloorDays(d time.Duration) int {
	ms := d.Milliseconds()
	dayMs := day.Milliseconds()
	if ms >= 0 {
		return int(ms / dayMs)
	}
	return -int((-ms + dayMs - 1) / dayMs)
}
