package types

// Order is a freelance job posting. Feed orders come from the parser and are
// identified by Hash until saved; CRM orders are persisted and identified by ID.
type Order struct {
	ID          int64   `json:"id,omitempty"`
	Hash        string  `json:"hash,omitempty"`
	Source      string  `json:"source"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Budget      string  `json:"budget,omitempty"`
	BudgetValue float64 `json:"budget_value,omitempty"`
	URL         string  `json:"url,omitempty"`
	ClientName  string  `json:"client_name,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`

	// CRM-only fields
	Status   string  `json:"status,omitempty"`
	MyPrice  float64 `json:"my_price,omitempty"`
	Notes    string  `json:"notes,omitempty"`
	Priority string  `json:"priority,omitempty"`
}

// Profile is the authoritative local copy of the user record, refreshed on
// every profile load.
type Profile struct {
	ID                   int64    `json:"id,omitempty"`
	TelegramID           int64    `json:"telegram_id"`
	Username             string   `json:"username,omitempty"`
	FullName             string   `json:"full_name,omitempty"`
	Bio                  string   `json:"bio,omitempty"`
	PortfolioURL         string   `json:"portfolio_url,omitempty"`
	HourlyRate           float64  `json:"hourly_rate,omitempty"`
	ExperienceYears      float64  `json:"experience_years,omitempty"`
	Categories           []string `json:"categories"`
	SubscriptionStatus   string   `json:"subscription_status,omitempty"`
	HasSubscription      bool     `json:"has_subscription,omitempty"`
	ParserActive         bool     `json:"parser_active"`
	NotificationsEnabled bool     `json:"notifications_enabled,omitempty"`
	MinBudget            float64  `json:"min_budget,omitempty"`
	OrdersViewed         int      `json:"orders_viewed"`
	ResponsesSent        int      `json:"responses_sent"`
	OrdersWon            int      `json:"orders_won"`
	TotalEarned          float64  `json:"total_earned"`
}

// HasCategory reports whether the profile has the given category selected.
func (p *Profile) HasCategory(key string) bool {
	for _, c := range p.Categories {
		if c == key {
			return true
		}
	}
	return false
}

// ToggleCategory flips membership of key in the category set and returns the
// new set. The receiver is not mutated.
func (p *Profile) ToggleCategory(key string) []string {
	if p.HasCategory(key) {
		out := make([]string, 0, len(p.Categories))
		for _, c := range p.Categories {
			if c != key {
				out = append(out, c)
			}
		}
		return out
	}
	out := make([]string, 0, len(p.Categories)+1)
	out = append(out, p.Categories...)
	return append(out, key)
}

// CrmStats are the aggregate tiles shown above the CRM list.
type CrmStats struct {
	Total      int
	InProgress int
	Completed  int
	Earned     float64
}

// ComputeCrmStats aggregates statistics over a CRM order collection.
// Earned sums MyPrice over completed orders only.
func ComputeCrmStats(orders []Order) CrmStats {
	stats := CrmStats{Total: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case StatusInProgress:
			stats.InProgress++
		case StatusCompleted:
			stats.Completed++
			stats.Earned += o.MyPrice
		}
	}
	return stats
}

// FilterBySource returns the orders whose Source equals source.
// "all" returns the input unchanged.
func FilterBySource(orders []Order, source string) []Order {
	if source == FilterAll {
		return orders
	}
	var out []Order
	for _, o := range orders {
		if o.Source == source {
			out = append(out, o)
		}
	}
	return out
}

// FilterByStatus returns the orders whose Status equals status.
// "all" returns the input unchanged.
func FilterByStatus(orders []Order, status string) []Order {
	if status == FilterAll {
		return orders
	}
	var out []Order
	for _, o := range orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}
