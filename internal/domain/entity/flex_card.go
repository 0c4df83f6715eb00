package entity

// FlexCard is a rendered card image plus its caption.
type FlexCard struct {
	Image   []byte `json:"-"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Caption string `json:"caption"`
}

// FlexOutcome classifies what a caller should do with a snapshot.
type FlexOutcome int

const (
	// OutcomeFetchFailed means the balance could not be read at all.
	OutcomeFetchFailed FlexOutcome = iota
	// OutcomeNoHoldings means the wallet holds none of the token.
	OutcomeNoHoldings
	// OutcomeReady means a card was rendered.
	OutcomeReady
)

func (o FlexOutcome) String() string {
	switch o {
	case OutcomeFetchFailed:
		return "fetch_failed"
	case OutcomeNoHoldings:
		return "no_holdings"
	case OutcomeReady:
		return "ready"
	default:
		return "unknown"
	}
}

// FlexResult is the full outcome of a flex request.
type FlexResult struct {
	Outcome  FlexOutcome
	Snapshot *WalletSnapshot
	Card     *FlexCard // set only when Outcome == OutcomeReady
}
