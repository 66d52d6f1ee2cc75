package topics

const (
	// Jogos
	JogoLiquidado = "jogo_liquidado"

	// Saques
	SaqueSolicitado = "saque_solicitado"
	SaqueStatus     = "saque_status"
)
