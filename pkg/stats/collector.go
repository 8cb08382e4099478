package stats

import "github.com/prometheus/client_golang/prometheus"

const namespace = "walletd"

// Collector exposes the state of the wallet as prometheus metrics.
type Collector struct {
	events          *prometheus.CounterVec
	accounts        prometheus.Gauge
	ledgerEntries   *prometheus.GaugeVec
	balances        *prometheus.GaugeVec
	syncingProgress prometheus.Gauge
	nodeConnected   prometheus.Gauge
	nodeSynced      prometheus.Gauge
}

// NewCollector creates the wallet metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Number of events folded into the wallet state, by kind.",
		}, []string{"kind"}),
		accounts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "accounts",
			Help:      "Number of known accounts.",
		}),
		ledgerEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_entries",
			Help:      "Number of visible ledger entries, by account.",
		}, []string{"account"}),
		balances: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "balance_units",
			Help:      "Current balance in smallest units, by account.",
		}, []string{"account"}),
		syncingProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "node_syncing_progress",
			Help:      "Estimated chain synchronization percentage.",
		}),
		nodeConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "node_connected",
			Help:      "Whether the channel with the node is open.",
		}),
		nodeSynced: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "node_synced",
			Help:      "Whether the node is synchronized.",
		}),
	}

	for _, collector := range []prometheus.Collector{
		c.events, c.accounts, c.ledgerEntries, c.balances,
		c.syncingProgress, c.nodeConnected, c.nodeSynced,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) ObserveEvent(kind string) {
	c.events.WithLabelValues(kind).Inc()
}

func (c *Collector) SetAccounts(count int) {
	c.accounts.Set(float64(count))
}

func (c *Collector) SetAccount(id string, balance int64, ledgerEntries int) {
	c.balances.WithLabelValues(id).Set(float64(balance))
	c.ledgerEntries.WithLabelValues(id).Set(float64(ledgerEntries))
}

func (c *Collector) DeleteAccount(id string) {
	c.balances.DeleteLabelValues(id)
	c.ledgerEntries.DeleteLabelValues(id)
}

func (c *Collector) SetNode(connected, synced bool, progress int) {
	c.nodeConnected.Set(boolToFloat(connected))
	c.nodeSynced.Set(boolToFloat(synced))
	c.syncingProgress.Set(float64(progress))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
