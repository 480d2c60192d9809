package model

type AuthStateName string

const (
	AuthOnboarding AuthStateName = "onboarding"
	AuthSigningIn  AuthStateName = "signingIn"
	AuthWalletSet  AuthStateName = "walletSet"
	AuthAuthorised AuthStateName = "authorised"
	AuthPurchasing AuthStateName = "purchasing"
)

type AuthEventType string

const (
	AuthEventSignIn         AuthEventType = "SIGN_IN"
	AuthEventSetWallet      AuthEventType = "SET_WALLET"
	AuthEventSetToken       AuthEventType = "SET_TOKEN"
	AuthEventBuyFullAccount AuthEventType = "BUY_FULL_ACCOUNT"
)

type WalletKind string

const WalletSequence WalletKind = "SEQUENCE"

type Web3Data struct {
	Provider string
	Wallet   WalletKind
}

type TokenData struct {
	Account string
	Token   string
}

type AuthEvent struct {
	Type   AuthEventType
	Wallet *Web3Data
	Token  *TokenData
}
