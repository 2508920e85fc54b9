package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/iwvelando/calckit/pkg/calcerr"
	"github.com/iwvelando/calckit/pkg/currency"
	"github.com/iwvelando/calckit/pkg/datetime"
	"github.com/iwvelando/calckit/pkg/finance"
	"github.com/iwvelando/calckit/pkg/format"
	"github.com/iwvelando/calckit/pkg/loans"
	"github.com/iwvelando/calckit/pkg/units"
	"github.com/iwvelando/calckit/pkg/validation"
	"go.uber.org/zap"
)

type amortizationRequest struct {
	Principal    float64 `json:"principal"`
	PeriodicRate float64 `json:"periodicRate"`
	Periods      int     `json:"periods"`
}

func (h *handler) handleAmortization(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAmortization"
	var req amortizationRequest
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	schedule, err := loans.Schedule(req.Principal, req.PeriodicRate, req.Periods)
	if err != nil {
		h.respondCalcError(w, r, err, op, false)
		return
	}
	h.writeJSON(w, http.StatusOK, schedule)
}

func (h *handler) handleLoan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleLoan"
	var loan loans.LoanConfig
	if !h.decodeRequest(w, r, &loan, op) {
		return
	}

	schedule, err := h.generator.GenerateSchedule(&loan)
	if err != nil {
		h.respondCalcError(w, r, err, op, false)
		return
	}
	h.writeJSON(w, http.StatusOK, schedule)
}

type dateDiffRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type dateDiffResponse struct {
	Start    datetime.Instant  `json:"start"`
	End      datetime.Instant  `json:"end"`
	Duration datetime.Duration `json:"duration"`
	Display  string            `json:"display"`
}

func (h *handler) handleDateDiff(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDateDiff"
	var req dateDiffRequest
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	start, end, err := validation.ParseDateRange(req.Start, req.End)
	if err != nil {
		h.respondCalcError(w, r, err, op, false)
		return
	}
	duration, err := datetime.Diff(start, end)
	if err != nil {
		h.respondCalcError(w, r, err, op, false)
		return
	}

	h.writeJSON(w, http.StatusOK, dateDiffResponse{
		Start:    start,
		End:      end,
		Duration: duration,
		Display:  format.Duration(duration),
	})
}

type ageRequest struct {
	BirthDate string `json:"birthDate"`
	AsOf      string `json:"asOf,omitempty"`
}

type ageResponse struct {
	Age               datetime.Duration `json:"age"`
	Display           string            `json:"display"`
	NextBirthday      datetime.Instant  `json:"nextBirthday"`
	DaysUntilBirthday int               `json:"daysUntilBirthday"`
}

func (h *handler) handleAge(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAge"
	var req ageRequest
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	birth, err := datetime.ParseInstant(req.BirthDate)
	if err != nil {
		h.respondCalcError(w, r, err, op, false)
		return
	}
	asOf := datetime.FromTime(h.now())
	if req.AsOf != "" {
		if asOf, err = datetime.ParseInstant(req.AsOf); err != nil {
			h.respondCalcError(w, r, err, op, false)
			return
		}
	}

	age, err := datetime.Age(birth, asOf)
	if err != nil {
		h.respondCalcError(w, r, err, op, false)
		return
	}
	next, days, err := datetime.NextBirthday(birth, asOf)
	if err != nil {
		h.respondCalcError(w, r, err, op, false)
		return
	}

	h.writeJSON(w, http.StatusOK, ageResponse{
		Age:               age,
		Display:           format.Duration(age),
		NextBirthday:      next,
		DaysUntilBirthday: days,
	})
}

type convertRequest struct {
	Value    float64 `json:"value"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	Category string  `json:"category"`
}

type convertResponse struct {
	Value    float64        `json:"value"`
	From     units.Unit     `json:"from"`
	To       units.Unit     `json:"to"`
	Category units.Category `json:"category"`
	Result   float64        `json:"result"`
}

func (h *handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConvert"
	var req convertRequest
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	category, err := units.ParseCategory(req.Category)
	if err != nil {
		h.respondCalcError(w, r, err, op, false)
		return
	}
	from, err := units.ParseUnit(category, req.From)
	if err != nil {
		h.respondCalcError(w, r, err, op, false)
		return
	}
	to, err := units.ParseUnit(category, req.To)
	if err != nil {
		h.respondCalcError(w, r, err, op, false)
		return
	}

	result, err := units.Convert(req.Value, from, to, category)
	if err != nil {
		h.respondCalcError(w, r, err, op, false)
		return
	}

	h.writeJSON(w, http.StatusOK, convertResponse{
		Value:    req.Value,
		From:     from,
		To:       to,
		Category: category,
		Result:   result,
	})
}

func (h *handler) handleUnits(w http.ResponseWriter, _ *http.Request) {
	catalog := make(map[units.Category][]units.Unit)
	for _, category := range units.Categories() {
		catalog[category] = units.Units(category)
	}
	h.writeJSON(w, http.StatusOK, catalog)
}

func (h *handler) handleCategoryUnits(w http.ResponseWriter, r *http.Request) {
	category, err := units.ParseCategory(mux.Vars(r)["category"])
	if err != nil {
		h.respondCalcError(w, r, err, "server.handleCategoryUnits", true)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"category": category,
		"units":    units.Units(category),
	})
}

type currencyConvertRequest struct {
	Amount float64 `json:"amount"`
	From   string  `json:"from"`
	To     string  `json:"to"`
}

type currencyConvertResponse struct {
	Amount    float64       `json:"amount"`
	From      currency.Code `json:"from"`
	To        currency.Code `json:"to"`
	Result    float64       `json:"result"`
	Rate      float64       `json:"rate"`
	Display   string        `json:"display"`
	Timestamp time.Time     `json:"timestamp"`
	Provider  string        `json:"provider,omitempty"`
}

func (h *handler) handleCurrencyConvert(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCurrencyConvert"
	if !h.ratesAvailable(w, r, op) {
		return
	}
	var req currencyConvertRequest
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	from, err := currency.ParseCode(req.From)
	if err != nil {
		h.respondCalcError(w, r, err, op, false)
		return
	}
	to, err := currency.ParseCode(req.To)
	if err != nil {
		h.respondCalcError(w, r, err, op, false)
		return
	}

	result, table, err := h.rates.Convert(r.Context(), req.Amount, from, to)
	if err != nil {
		h.respondCalcError(w, r, err, op, false)
		return
	}
	rate, _ := table.Rate(to)

	h.writeJSON(w, http.StatusOK, currencyConvertResponse{
		Amount:    req.Amount,
		From:      from,
		To:        to,
		Result:    result,
		Rate:      rate,
		Display:   format.CodeCurrency(result, string(to)),
		Timestamp: table.Timestamp,
		Provider:  table.Provider,
	})
}

func (h *handler) handleCurrencyRates(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCurrencyRates"
	if !h.ratesAvailable(w, r, op) {
		return
	}

	base, err := currency.ParseCode(mux.Vars(r)["base"])
	if err != nil {
		h.respondCalcError(w, r, err, op, true)
		return
	}
	table, err := h.rates.Latest(r.Context(), base)
	if err != nil {
		h.respondCalcError(w, r, err, op, true)
		return
	}
	h.writeJSON(w, http.StatusOK, table)
}

func (h *handler) ratesAvailable(w http.ResponseWriter, r *http.Request, op string) bool {
	if h.rates != nil {
		return true
	}
	h.respondErrorWithOp(w, r, http.StatusServiceUnavailable, "currency rates are not configured", op)
	return false
}

type compoundRequest struct {
	Principal          float64 `json:"principal"`
	AnnualRate         float64 `json:"annualRate"` // percent
	Years              int     `json:"years"`
	CompoundsPerYear   int     `json:"compoundsPerYear"`
	AnnualContribution float64 `json:"annualContribution,omitempty"`
}

func (h *handler) handleCompound(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompound"
	var req compoundRequest
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	schedule, err := finance.CompoundSchedule(req.Principal, req.AnnualRate, req.Years, req.CompoundsPerYear, req.AnnualContribution)
	if err != nil {
		h.respondCalcError(w, r, err, op, false)
		return
	}
	h.writeJSON(w, http.StatusOK, schedule)
}

type npvRequest struct {
	InitialInvestment float64   `json:"initialInvestment"`
	CashFlows         []float64 `json:"cashFlows,omitempty"`
	CashFlowsText     string    `json:"cashFlowsText,omitempty"`
	DiscountRate      float64   `json:"discountRate"` // percent
}

func (h *handler) handleNPV(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleNPV"
	var req npvRequest
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	flows := req.CashFlows
	if len(flows) == 0 && req.CashFlowsText != "" {
		flows = finance.ParseCashFlows(req.CashFlowsText)
	}

	npv, err := finance.NPV(req.InitialInvestment, flows, req.DiscountRate)
	if err != nil {
		h.respondCalcError(w, r, err, op, false)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"npv":       npv,
		"cashFlows": flows,
		"display":   format.Currency(npv),
	})
}

type roiRequest struct {
	Investment  float64 `json:"investment"`
	TotalReturn float64 `json:"totalReturn"`
	Years       float64 `json:"years,omitempty"`
}

type roiResponse struct {
	ROI           float64  `json:"roi"`
	AnnualizedROI *float64 `json:"annualizedRoi,omitempty"`
}

func (h *handler) handleROI(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleROI"
	var req roiRequest
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	roi, err := finance.ROI(req.Investment, req.TotalReturn)
	if err != nil {
		h.respondCalcError(w, r, err, op, false)
		return
	}
	resp := roiResponse{ROI: roi}

	if req.Years != 0 {
		annualized, err := finance.AnnualizedROI(req.Investment, req.TotalReturn, req.Years)
		switch {
		case err == nil:
			resp.AnnualizedROI = &annualized
		case errors.Is(err, calcerr.ErrInvalidInput):
			h.logger.Debug("annualized ROI not defined for request",
				zap.String("op", op),
				zap.Error(err),
			)
		default:
			h.respondCalcError(w, r, err, op, false)
			return
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
}
