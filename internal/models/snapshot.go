package models

// Snapshot holds the technical indicators for one equity. Every field is
// independently nullable: nil means the value could not be sourced from
// either the market-data provider or narrative extraction.
type Snapshot struct {
	CurrentPrice     *float64 `json:"current_price"`
	MovingAvg50      *float64 `json:"moving_avg_50"`
	MovingAvg200     *float64 `json:"moving_avg_200"`
	RSI14            *float64 `json:"rsi_value"`
	SupportLevel     *float64 `json:"support_level"`
	ResistanceLevel  *float64 `json:"resistance_level"`
	PERatio          *float64 `json:"pe_ratio"`
	EPS              *float64 `json:"eps"`
	Beta             *float64 `json:"beta"`
	TargetPriceLow   *float64 `json:"target_price_low"`
	TargetPriceAvg   *float64 `json:"target_price_avg"`
	TargetPriceHigh  *float64 `json:"target_price_high"`
	FiftyTwoWeekHigh *float64 `json:"52_week_high"`
	FiftyTwoWeekLow  *float64 `json:"52_week_low"`
}

// Fields enumerates the snapshot fields by name, in a stable order, so
// callers can iterate for merging and gap detection.
func (s *Snapshot) Fields() []SnapshotField {
	return []SnapshotField{
		{"current_price", &s.CurrentPrice},
		{"moving_avg_50", &s.MovingAvg50},
		{"moving_avg_200", &s.MovingAvg200},
		{"rsi_value", &s.RSI14},
		{"support_level", &s.SupportLevel},
		{"resistance_level", &s.ResistanceLevel},
		{"pe_ratio", &s.PERatio},
		{"eps", &s.EPS},
		{"beta", &s.Beta},
		{"target_price_low", &s.TargetPriceLow},
		{"target_price_avg", &s.TargetPriceAvg},
		{"target_price_high", &s.TargetPriceHigh},
		{"52_week_high", &s.FiftyTwoWeekHigh},
		{"52_week_low", &s.FiftyTwoWeekLow},
	}
}

// SnapshotField pairs a field name with a pointer to its slot.
type SnapshotField struct {
	Name string
	Slot **float64
}

// MissingFields returns the names of all fields still nil.
func (s *Snapshot) MissingFields() []string {
	var missing []string
	for _, f := range s.Fields() {
		if *f.Slot == nil {
			missing = append(missing, f.Name)
		}
	}
	return missing
}
