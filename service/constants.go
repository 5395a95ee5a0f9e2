package service

const (
	MaxPercentage      = 100.0 // match percentage and match cap are percentages
	MaxUserIDLength    = 128
	MaxLoanTenureYears = 50

	// Bump the version when the cached result encoding changes.
	cacheKeyPrefix = "match:v1:"
)

const (
	usd                 = "USD"
	defaultLoanCurrency = "INR"

	// Debt-to-income ratio (percent) below which each match tier applies.
	lowRiskDTI    = 15.0
	mediumRiskDTI = 25.0

	minHealthScore = 50

	// Rough growth of a year's match after 5 and 10 years.
	growthFactor5Y  = 1.34
	growthFactor10Y = 1.79

	// Future value of 1 per year at 6% APY.
	annuityFactor10Y = 13.18
	annuityFactor20Y = 36.79
	annuityFactor30Y = 79.06
)
