package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics counts quotes and cart activity.
type PricingMetrics struct {
	quotes        *prometheus.CounterVec
	cartMutations *prometheus.CounterVec
	lockBusy      *prometheus.CounterVec
	cartsSwept    prometheus.Counter
}

// NewPricingMetrics registers the pricing metrics on reg. A nil registerer
// yields a no-op recorder.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	quotes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "pricing",
		Name:      "quotes_total",
		Help:      "Price quotes served, by mode and price source.",
	}, []string{"mode", "source"})
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "cart",
		Name:      "mutations_total",
		Help:      "Cart mutations, by operation.",
	}, []string{"op"})
	lockBusy := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "cart",
		Name:      "lock_busy_total",
		Help:      "Cart operations rejected because the session lock was held.",
	}, []string{"op"})
	cartsSwept := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "cart",
		Name:      "swept_total",
		Help:      "Idle carts removed by the sweep job.",
	})
	reg.MustRegister(quotes, cartMutations, lockBusy, cartsSwept)
	return &PricingMetrics{
		quotes:        quotes,
		cartMutations: cartMutations,
		lockBusy:      lockBusy,
		cartsSwept:    cartsSwept,
	}
}

func (p *PricingMetrics) IncQuote(mode, source string) {
	if p == nil || p.quotes == nil {
		return
	}
	p.quotes.WithLabelValues(normalizeLabel(mode), normalizeLabel(source)).Inc()
}

func (p *PricingMetrics) IncCartMutation(op string) {
	if p == nil || p.cartMutations == nil {
		return
	}
	p.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

func (p *PricingMetrics) IncLockBusy(op string) {
	if p == nil || p.lockBusy == nil {
		return
	}
	p.lockBusy.WithLabelValues(normalizeLabel(op)).Inc()
}

// AddCartsSwept adds n removed carts; non-positive values are ignored.
func (p *PricingMetrics) AddCartsSwept(n int) {
	if p == nil || p.cartsSwept == nil || n <= 0 {
		return
	}
	p.cartsSwept.Add(float64(n))
}
