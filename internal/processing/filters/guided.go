package filters

import (
	"fmt"
	"math"

	"dehazer/internal/models"
)

// GuidedFilter refines p with the guidance image I using the local linear
// model q = mean(a)*I + mean(b), where a and b solve a ridge regression of p
// on I inside every window. Larger eps smooths more; eps near zero makes q
// follow p.
func GuidedFilter(ws *Workspace, guide, input *models.Field, win models.Window, eps float64) (*models.Field, error) {
	if err := guide.Validate(); err != nil {
		return nil, fmt.Errorf("guided filter guide: %w", err)
	}
	if err := models.CheckShape(guide.Width, guide.Height, input); err != nil {
		return nil, fmt.Errorf("guided filter input: %w", err)
	}
	if err := win.Validate(); err != nil {
		return nil, fmt.Errorf("guided filter: %w", err)
	}
	if !(eps > 0) || math.IsInf(eps, 1) {
		return nil, fmt.Errorf("%w: guided filter eps must be positive and finite, got %g",
			models.ErrInvalidArgument, eps)
	}

	ws = ws.orDefault()
	width, height := guide.Width, guide.Height

	ip := ws.NewField(width, height)
	ii := ws.NewField(width, height)
	ws.Rows(height, func(start, end int) {
		for i := start * width; i < end*width; i++ {
			g, v := guide.Data[i], input.Data[i]
			ip.Data[i] = g * v
			ii.Data[i] = g * g
		}
	})

	meanI, err := BoxFilter(ws, guide, win)
	if err != nil {
		return nil, err
	}
	meanP, err := BoxFilter(ws, input, win)
	if err != nil {
		return nil, err
	}
	meanIP, err := BoxFilter(ws, ip, win)
	if err != nil {
		return nil, err
	}
	meanII, err := BoxFilter(ws, ii, win)
	if err != nil {
		return nil, err
	}
	ws.Release(ip, ii)

	// a and b reuse the buffers of meanIP and meanII.
	a, b := meanIP, meanII
	ws.Rows(height, func(start, end int) {
		for i := start * width; i < end*width; i++ {
			mI, mP := meanI.Data[i], meanP.Data[i]
			cov := meanIP.Data[i] - mI*mP
			variance := meanII.Data[i] - mI*mI
			ai := cov / (variance + eps)
			a.Data[i] = ai
			b.Data[i] = mP - ai*mI
		}
	})
	ws.Release(meanI, meanP)

	meanA, err := BoxFilter(ws, a, win)
	if err != nil {
		return nil, err
	}
	meanB, err := BoxFilter(ws, b, win)
	if err != nil {
		return nil, err
	}
	ws.Release(a, b)

	q := meanA
	ws.Rows(height, func(start, end int) {
		for i := start * width; i < end*width; i++ {
			q.Data[i] = meanA.Data[i]*guide.Data[i] + meanB.Data[i]
		}
	})
	ws.Release(meanB)

	return q, nil
}
