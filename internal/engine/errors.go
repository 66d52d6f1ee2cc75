package engine

import "errors"

// Erros de negócio do engine. Todos representam condições esperadas e
// recuperáveis: a operação aborta sem efeito durável e a camada HTTP
// traduz para o status adequado.
var (
	ErrInsufficientFunds    = errors.New("saldo insuficiente")
	ErrNoBonusPlayAvailable = errors.New("nenhuma raspadinha bônus disponível")
	ErrPrizeMismatch        = errors.New("premio_total não corresponde à soma dos prêmios")
	ErrPlayCountMismatch    = errors.New("quantidade de raspadinhas não corresponde à lista enviada")
	ErrDuplicateCode        = errors.New("código de cupom já está em uso")
	ErrInvalidStatus        = errors.New("status de saque inválido")
	ErrNotFound             = errors.New("registro não encontrado")
	ErrEmailTaken           = errors.New("email já cadastrado")
	ErrCouponInUse          = errors.New("cupom já utilizado por usuários")
	ErrInvalidAmount        = errors.New("valor deve ser maior que zero")
)
