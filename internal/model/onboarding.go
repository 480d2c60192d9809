package model

import "strconv"

type OnboardingStep int

const (
	StepCreateWallet OnboardingStep = iota + 1
	StepAcceptTerms
	StepBuyFarm
)

func (s OnboardingStep) Valid() bool {
	return s >= StepCreateWallet && s <= StepBuyFarm
}

func (s OnboardingStep) String() string {
	return strconv.Itoa(int(s))
}

type StepContent struct {
	Title       string
	Icon        string
	Text        []string
	ButtonText  string
	LoadingText string
}

type OnboardingView struct {
	Step        OnboardingStep
	Loading     bool
	Title       string
	Icon        string
	Text        []string
	ButtonLabel string
	Equipped    Equipped
}
