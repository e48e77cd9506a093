package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Trade Journal Configuration

[analytics]
# Monte Carlo simulation runs per horizon
simulations = 3000
# Projection horizons in trading days
horizons = [30, 90, 252]
# Horizon for the day-by-day percentile band
band_horizon = 30
# Fixed number of simulation chunks; results do not depend on worker count
parallel_chunks = 12
# Worker goroutines (0 = number of CPUs)
workers = 0

# Goal status thresholds.
# Higher-is-better: on_track if current >= target*on_track_ratio, broken if current < target*broken_ratio.
# Lower-is-better: on_track if current < target*on_track_ratio, broken if current >= target*broken_ratio.
[goals.monthly_profit]
on_track_ratio = 0.9
broken_ratio = 0.5

[goals.win_rate]
on_track_ratio = 0.9
broken_ratio = 0.5

[goals.consistency]
on_track_ratio = 0.9
broken_ratio = 0.5

[goals.max_daily_loss]
on_track_ratio = 0.9
broken_ratio = 1.0

[goals.max_trades_per_day]
on_track_ratio = 0.9
broken_ratio = 1.0

[store]
# SQLite database file (default: journal.db in this directory)
# path = "/var/lib/tradejournal/journal.db"

[server]
listen_addr = ":8080"
read_timeout = "10s"
write_timeout = "30s"

[logging]
# debug, info, warn, error
level = "info"
console = true
file = true
max_size = 100
max_backups = 7
max_age = 30
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
