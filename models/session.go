package models

// AdminSession — проверенная личность администратора, привязанная к opaque
// токену в cookie. Живёт только в памяти процесса: после рестарта все сессии
// пропадают и клиент получает invalid session.
type AdminSession struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
}
