package models

// AdminStats содержит агрегаты по подпискам всех пользователей
// для административной панели.
type AdminStats struct {
	SubscriptionCount    int            `json:"subscription_count"`     // Всего подписок
	ProviderCount        int            `json:"provider_count"`         // Уникальных провайдеров среди подписок
	TotalMonthlyAmount   float64        `json:"total_monthly_amount"`   // Суммарные траты в месячном эквиваленте
	ProviderDistribution map[string]int `json:"provider_distribution"`  // Количество подписок по провайдерам
	CreatedByMonth       [12]int        `json:"created_by_month"`       // Создано подписок по календарным месяцам
}
