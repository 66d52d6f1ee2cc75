package engine

import "time"

// Estados do ciclo de vida de um saque. "processando" é um intermediário
// opcional: pendente pode ir direto a concluido.
const (
	StatusPendente    = "pendente"
	StatusProcessando = "processando"
	StatusConcluido   = "concluido"
	StatusCancelado   = "cancelado"
)

// ValidStatus informa se s é um dos quatro estados conhecidos.
func ValidStatus(s string) bool {
	switch s {
	case StatusPendente, StatusProcessando, StatusConcluido, StatusCancelado:
		return true
	}
	return false
}

func terminalStatus(s string) bool {
	return s == StatusConcluido || s == StatusCancelado
}

// Transition aplica uma mudança de status ao saque e informa se o saldo do
// dono deve ser restaurado (entrada em cancelado a partir de outro estado).
//
// Regras:
//   - status desconhecido → ErrInvalidStatus
//   - mesmo status → no-op permitido, sem nenhum efeito (nunca re-credita)
//   - saída de concluido/cancelado → ErrInvalidStatus
//   - entrada em estado terminal carimba ProcessedAt
func (w *Withdrawal) Transition(newStatus string, now time.Time) (refund bool, err error) {
	if !ValidStatus(newStatus) {
		return false, ErrInvalidStatus
	}
	if w.Status == newStatus {
		return false, nil
	}
	if terminalStatus(w.Status) {
		return false, ErrInvalidStatus
	}

	refund = newStatus == StatusCancelado
	w.Status = newStatus
	if terminalStatus(newStatus) {
		w.ProcessedAt = &now
	}
	return refund, nil
}
