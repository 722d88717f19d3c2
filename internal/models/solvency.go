package models

const GENESIS_SUPPLY int64 = 1_000_000_000

type SolvencyStatus string

const (
	SolvencyStimulus  SolvencyStatus = "Stimulus"
	SolvencyHealthy   SolvencyStatus = "Healthy"
	SolvencyAusterity SolvencyStatus = "Austerity"
	SolvencyCrisis    SolvencyStatus = "Crisis"
	SolvencyBankrupt  SolvencyStatus = "Bankrupt"
)

type solvencyStep struct {
	above      float64
	multiplier float64
	status     SolvencyStatus
}

// evaluated top-down, first strictly-greater match wins
var solvencySteps = []solvencyStep{
	{0.80, 2.0, SolvencyStimulus},
	{0.40, 1.0, SolvencyHealthy},
	{0.20, 0.5, SolvencyAusterity},
	{0.05, 0.1, SolvencyCrisis},
}

type Solvency struct {
	Ratio      float64        `json:"ratio"`
	Multiplier float64        `json:"multiplier"`
	Status     SolvencyStatus `json:"status"`
}

func SolvencyForRatio(ratio float64) Solvency {
	for _, step := range solvencySteps {
		if ratio > step.above {
			return Solvency{Ratio: ratio, Multiplier: step.multiplier, Status: step.status}
		}
	}
	return Solvency{Ratio: ratio, Multiplier: 0, Status: SolvencyBankrupt}
}

func SolvencyFor(bankBalance, genesisSupply int64) Solvency {
	if genesisSupply <= 0 {
		return SolvencyForRatio(0)
	}
	return SolvencyForRatio(float64(bankBalance) / float64(genesisSupply))
}

type Reserve struct {
	Reserves      int64 `json:"reserves"`
	GenesisSupply int64 `json:"genesis_supply"`
	Solvency
}

func (r Reserve) RatioPercent() float64 {
	return r.Ratio * 100
}
