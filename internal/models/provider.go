package models

// Provider представляет сервис-провайдера подписки (Netflix, Spotify и т.п.).
// Провайдер только референсится подписками и никогда ими не владеет.
type Provider struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	LogoPath string `json:"logo_path"`
}

// DummyProvider используется для приёма данных провайдера из JSON-запроса.
type DummyProvider struct {
	Name     string `json:"name" validate:"required"`
	LogoPath string `json:"logo_path,omitempty"`
}
