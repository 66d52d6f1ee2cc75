package events

// Evento publicado no tópico "saque_solicitado" na criação de um saque
// (saldo já debitado nesse momento).
type SaqueSolicitado struct {
	SaqueID  string `json:"saque_id"`
	UserID   string `json:"user_id"`
	Valor    string `json:"valor"`
	TsUnixMs int64  `json:"ts_unix_ms"`
}

// Evento publicado no tópico "saque_status" em cada mudança de status feita
// pelo backoffice. OldStatus permite ao consumidor ajustar contadores de
// pendência sem consultar o banco.
type SaqueStatus struct {
	SaqueID   string `json:"saque_id"`
	UserID    string `json:"user_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	Valor     string `json:"valor"`
	TsUnixMs  int64  `json:"ts_unix_ms"`
}
