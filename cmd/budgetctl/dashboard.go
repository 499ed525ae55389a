package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"budgetwise/internal/domain"
)

type budgetLine struct {
	Budget struct {
		Name        string `json:"name"`
		AmountCents int64  `json:"amount_cents"`
		Currency    string `json:"currency"`
		Period      string `json:"period"`
	} `json:"budget"`
	SpentCents     int64   `json:"spent_cents"`
	RemainingCents int64   `json:"remaining_cents"`
	PercentageUsed float64 `json:"percentage_used"`
	IsOverBudget   bool    `json:"is_over_budget"`
	ShouldAlert    bool    `json:"should_alert"`
}

type categoryLine struct {
	CategoryName string       `json:"category_name"`
	CategoryIcon string       `json:"category_icon"`
	Budgets      []budgetLine `json:"budgets"`
}

type dashboard struct {
	Categories       []categoryLine `json:"categories"`
	TotalBudgetCents int64          `json:"total_budget_cents"`
	TotalSpentCents  int64          `json:"total_spent_cents"`
	OverBudgetCount  int            `json:"over_budget_count"`
	AlertCount       int            `json:"alert_count"`
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	overStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show spending against every active budget",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			api := newAPIClient(newAuthClient(cmd.Context()))
			var resp struct {
				Dashboard json.RawMessage `json:"dashboard"`
			}
			if err := api.getJSON(cmd.Context(), "/api/v1/budgets/dashboard", &resp); err != nil {
				return err
			}
			if asJSON {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), string(resp.Dashboard))
				return err
			}

			var d dashboard
			if err := json.Unmarshal(resp.Dashboard, &d); err != nil {
				return fmt.Errorf("failed to parse dashboard: %w", err)
			}
			renderDashboard(cmd.OutOrStdout(), d)
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "print the raw dashboard JSON")
	return cmd
}

func renderDashboard(w io.Writer, d dashboard) {
	if len(d.Categories) == 0 {
		fmt.Fprintln(w, "No active budgets")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("Category"),
		headerStyle.Render("Budget"),
		headerStyle.Render("Period"),
		headerStyle.Render("Spent"),
		headerStyle.Render("Remaining"),
		headerStyle.Render("Used"))

	for _, c := range d.Categories {
		category := strings.TrimSpace(c.CategoryIcon + " " + c.CategoryName)
		for _, b := range c.Budgets {
			used := fmt.Sprintf("%.1f%%", b.PercentageUsed)
			switch {
			case b.IsOverBudget:
				used = overStyle.Render(used)
			case b.ShouldAlert:
				used = alertStyle.Render(used)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				category,
				b.Budget.Name,
				strings.ToLower(b.Budget.Period),
				formatCents(b.SpentCents, b.Budget.Currency),
				formatCents(b.RemainingCents, b.Budget.Currency),
				used)
		}
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\nTotal spent %s of %s", formatCents(d.TotalSpentCents, ""), formatCents(d.TotalBudgetCents, ""))
	if d.OverBudgetCount > 0 {
		fmt.Fprintf(w, ", %s", overStyle.Render(fmt.Sprintf("%d over budget", d.OverBudgetCount)))
	}
	if d.AlertCount > 0 {
		fmt.Fprintf(w, ", %d near the limit", d.AlertCount)
	}
	fmt.Fprintln(w)
}

// formatCents renders minor units with the currency's symbol, or as a plain
// two-decimal amount when the currency is unknown or mixed.
func formatCents(cents int64, currency string) string {
	if m, err := domain.NewMoney(cents, domain.Currency(currency)); err == nil {
		return m.String()
	}
	return fmt.Sprintf("%.2f", float64(cents)/100)
}
