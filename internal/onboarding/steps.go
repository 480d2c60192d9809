package onboarding

import "farm_miniapp/internal/model"

const sequenceLogo = "https://sequence.app/static/images/sequence-logo.7c854742a6b8b4969004.svg"

var steps = map[model.OnboardingStep]model.StepContent{
	model.StepCreateWallet: {
		Title: "Setting up your wallet",
		Icon:  sequenceLogo,
		Text: []string{
			"There are many wallet providers out there, but we've partnered with Sequence because they're easy to use and secure.",
			"Select a sign-up method in the pop-up window and you're good to go. I'll see you back here in just a minute!",
		},
		ButtonText:  "Create wallet",
		LoadingText: "Signing in...",
	},
	model.StepAcceptTerms: {
		Title: "Accept the terms of service",
		Icon:  "sunflower_crop",
		Text: []string{
			"In order to buy your farm you will need to accept the Sunflower Land terms of service.",
			"This step will take you back to your new sequence wallet to accept the terms of service.",
		},
		ButtonText:  "Accept terms of service",
		LoadingText: "Accepting terms...",
	},
	model.StepBuyFarm: {
		Title: "Buy your farm!",
		Icon:  "wallet",
		Text: []string{
			"Now that your wallet is all set up, it's time to get your very own farm NFT! ",
			"This NFT will securely store all your progress in Sunflower Land and allow you to keep coming back to tend to your farm.",
		},
		ButtonText:  "Let's do this!",
		LoadingText: "Let's do this!",
	},
}

// Content returns the fixed display content of a step.
func Content(step model.OnboardingStep) (model.StepContent, bool) {
	c, ok := steps[step]
	return c, ok
}
