package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	repos "github.com/yungbote/cartcheck/internal/data/repos/commerce"
	"github.com/yungbote/cartcheck/internal/domain/commerce"
	"github.com/yungbote/cartcheck/internal/observability"
	"github.com/yungbote/cartcheck/internal/platform/dbctx"
	"github.com/yungbote/cartcheck/internal/platform/logger"
	"github.com/yungbote/cartcheck/internal/validation/diag"
)

const (
	SweepCheckout = "checkout"
	SweepContents = "contents"
)

type CartSweepDeps struct {
	Log        *logger.Logger
	Carts      repos.CartRepo
	Validation CartValidationService
	Metrics    *observability.Metrics
}

type CartSweepInput struct {
	StoreCode   string
	Operation   string
	Concurrency int
	PageSize    int
	// OnCart, when set, receives every cart result as it completes. Calls may
	// come from several goroutines at once.
	OnCart func(CartSweepResult)
}

// CartSweepResult is the outcome for one cart. Err holds a fault; faulted
// carts carry no diagnostics.
type CartSweepResult struct {
	CartGUID    string
	Diagnostics []diag.Diagnostic
	Err         error
}

type CartSweepOutput struct {
	Carts   int            `json:"carts"`
	Valid   int            `json:"valid"`
	Invalid int            `json:"invalid"`
	Faulted int            `json:"faulted"`
	ByID    map[string]int `json:"by_id"`
}

// TopIDs lists diagnostic ids by descending count, ties by id.
func (o CartSweepOutput) TopIDs() []string {
	ids := make([]string, 0, len(o.ByID))
	for id := range o.ByID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if o.ByID[ids[i]] != o.ByID[ids[j]] {
			return o.ByID[ids[i]] > o.ByID[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids
}

type CartSweepService interface {
	Run(ctx context.Context, in CartSweepInput) (CartSweepOutput, error)
}

type cartSweepService struct {
	deps CartSweepDeps
	log  *logger.Logger
}

func NewCartSweepService(deps CartSweepDeps) CartSweepService {
	return &cartSweepService{deps: deps, log: deps.Log.With("service", "CartSweepService")}
}

// Run validates every stored cart, optionally restricted to one store. Cart
// faults are counted and the sweep moves on; only a listing failure or
// cancellation stops it.
func (s *cartSweepService) Run(ctx context.Context, in CartSweepInput) (CartSweepOutput, error) {
	validate, err := s.operation(in.Operation)
	if err != nil {
		return CartSweepOutput{}, err
	}
	maxConc := in.Concurrency
	if maxConc <= 0 {
		maxConc = 8
	}
	pageSize := in.PageSize
	if pageSize <= 0 {
		pageSize = 200
	}

	out := CartSweepOutput{ByID: map[string]int{}}
	var mu sync.Mutex
	record := func(res CartSweepResult) {
		mu.Lock()
		out.Carts++
		switch {
		case res.Err != nil:
			out.Faulted++
		case len(res.Diagnostics) == 0:
			out.Valid++
		default:
			out.Invalid++
			for _, d := range res.Diagnostics {
				out.ByID[d.ID]++
			}
		}
		mu.Unlock()
		s.deps.Metrics.IncSweepCart()
		if in.OnCart != nil {
			in.OnCart(res)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConc)

	for offset := 0; gctx.Err() == nil; offset += pageSize {
		guids, err := s.deps.Carts.ListGUIDs(dbctx.From(gctx), in.StoreCode, pageSize, offset)
		if err != nil {
			_ = g.Wait()
			return out, fmt.Errorf("list carts: %w", err)
		}
		for _, guid := range guids {
			guid := guid
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				record(s.one(gctx, guid, validate))
				return nil
			})
		}
		if len(guids) < pageSize {
			break
		}
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}
	s.log.Info("cart sweep finished", "store", in.StoreCode, "carts", out.Carts, "invalid", out.Invalid, "faulted", out.Faulted)
	return out, nil
}

func (s *cartSweepService) one(ctx context.Context, guid string, validate func(context.Context, *commerce.Cart) ([]diag.Diagnostic, error)) CartSweepResult {
	res := CartSweepResult{CartGUID: guid}
	cart, err := s.deps.Carts.GetByGUID(dbctx.From(ctx), guid)
	if err != nil {
		res.Err = err
		return res
	}
	if cart == nil {
		// Deleted between listing and loading.
		res.Err = fmt.Errorf("cart %s disappeared during sweep", guid)
		return res
	}
	res.Diagnostics, res.Err = validate(ctx, cart)
	return res
}

func (s *cartSweepService) operation(op string) (func(context.Context, *commerce.Cart) ([]diag.Diagnostic, error), error) {
	switch op {
	case "", SweepCheckout:
		return s.deps.Validation.ValidateCheckout, nil
	case SweepContents:
		return s.deps.Validation.ValidateCartContents, nil
	default:
		return nil, fmt.Errorf("unknown sweep operation %q", op)
	}
}
