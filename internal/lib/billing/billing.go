// Package billing содержит чистую календарную арифметику биллинговых циклов.
// Функции не имеют побочных эффектов и не зависят от внешнего состояния,
// поэтому тестируются без запущенного сервиса и сети.
package billing

import (
	"fmt"
	"time"
)

// Cycle задаёт биллинговый цикл подписки.
type Cycle string

// Поддерживаемые циклы. Всё остальное отклоняется на границе.
const (
	CycleMonthly Cycle = "monthly"
	CycleYearly  Cycle = "yearly"
)

// ParseCycle проверяет строковое значение цикла.
// Любое значение кроме monthly и yearly — нарушение контракта вызывающего.
func ParseCycle(s string) (Cycle, error) {
	switch Cycle(s) {
	case CycleMonthly, CycleYearly:
		return Cycle(s), nil
	default:
		return "", fmt.Errorf("unknown billing cycle: %q", s)
	}
}

// NextPaymentDate возвращает from, сдвинутую ровно на один календарный цикл.
// Число месяца прижимается к последнему дню целевого месяца:
// 31 января + месяц = 29 февраля (в високосный год), а не 2 марта.
// Результат усечён до даты (полночь UTC).
func NextPaymentDate(cycle Cycle, from time.Time) time.Time {
	year, month, day := from.Date()
	switch cycle {
	case CycleYearly:
		year++
	default:
		month++
	}
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// lastDayOfMonth возвращает число последнего дня месяца.
// time.Date нормализует нулевой день следующего месяца в последний день текущего.
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
