package http

import (
	"net/http"
	"time"

	"pftracker/internal/core"
	applog "pftracker/internal/log"
)

// transactionView adds the display amount to a stored transaction.
type transactionView struct {
	core.Transaction
	AmountDisplay string `json:"amount_display"`
}

type monthSummaryView struct {
	core.MonthOverview
	ExpensesDisplay    string `json:"expenses_display"`
	InvestmentsDisplay string `json:"investments_display"`
	IncomeDisplay      string `json:"income_display"`
}

func (s *Server) transactionViews(txs []core.Transaction) []transactionView {
	out := make([]transactionView, len(txs))
	for i, t := range txs {
		out[i] = transactionView{Transaction: t, AmountDisplay: core.FormatAmount(t.Amount, s.currency)}
	}
	return out
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	month, ok := parseMonthQuery(r)
	if !ok {
		BadRequestError("month must be YYYY-MM").Write(w)
		return
	}
	txs := s.state.Transactions()
	if month != "" {
		txs = s.state.TransactionsForMonth(month)
	}
	JSON(s.transactionViews(txs)).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeBody(w, r)
	if !ok {
		return
	}
	tx, err := parseTransaction(p)
	if err != nil {
		FromError(err).Write(w)
		return
	}

	created, err := s.state.AddTransaction(r.Context(), tx)
	if err != nil {
		s.logFailure(r, applog.OpCreate, err)
		FromError(err).Write(w)
		return
	}
	JSON(transactionView{Transaction: created, AmountDisplay: core.FormatAmount(created.Amount, s.currency)}).
		Status(http.StatusCreated).
		Header("Location", "/api/transactions/"+created.ID.String()).
		Write(w)
}

// handleEditTransaction replaces the record named in the path. Fields
// left out of the body are cleared, as an edit is a full replacement.
func (s *Server) handleEditTransaction(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeBody(w, r)
	if !ok {
		return
	}
	tx, err := parseTransaction(p)
	if err != nil {
		FromError(err).Write(w)
		return
	}
	id := core.ID(sanitizeInput(r.PathValue("id")))
	if tx.ID != "" && tx.ID != id {
		BadRequestError("id in body does not match path").Write(w)
		return
	}
	tx.ID = id

	updated, err := s.state.EditTransaction(r.Context(), tx)
	if err != nil {
		s.logFailure(r, applog.OpUpdate, err)
		FromError(err).Write(w)
		return
	}
	JSON(transactionView{Transaction: updated, AmountDisplay: core.FormatAmount(updated.Amount, s.currency)}).Write(w)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	JSON(s.transactionViews(s.state.Expenses())).Write(w)
}

func (s *Server) handleListSIPs(w http.ResponseWriter, r *http.Request) {
	JSON(s.transactionViews(s.state.SIPs())).Write(w)
}

func (s *Server) handleListMonths(w http.ResponseWriter, r *http.Request) {
	JSON(s.state.AvailableMonths()).Write(w)
}

// handleMonthSummary serves the totals of ?month=, defaulting to the
// current month.
func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	month, ok := parseMonthQuery(r)
	if !ok {
		BadRequestError("month must be YYYY-MM").Write(w)
		return
	}
	if month == "" {
		month = currentMonth(time.Now())
	}

	overview := s.summaryCache.GetOrLoad(month, func() core.MonthOverview {
		return s.state.MonthSummary(month)
	})
	JSON(monthSummaryView{
		MonthOverview:      overview,
		ExpensesDisplay:    core.FormatAmount(overview.Expenses, s.currency),
		InvestmentsDisplay: core.FormatAmount(overview.Investments, s.currency),
		IncomeDisplay:      core.FormatAmount(overview.Income, s.currency),
	}).Write(w)
}

func (s *Server) logFailure(r *http.Request, op string, err error) {
	level := s.logger.WarnContext
	if !core.IsValidation(err) {
		level = s.logger.ErrorContext
	}
	level(r.Context(), "Request rejected",
		applog.NewFields().
			WithOperation(op).
			WithError(err).
			WithHTTP(r.Method, r.URL.Path, 0, 0).
			ToSlice()...)
}
