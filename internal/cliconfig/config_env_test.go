package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		changed map[string]bool
		check   func(t *testing.T, cfg Config)
		wantErr bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"TELEMSHIP_ENDPOINT_URL":      "https://collector.example.com/v2/track",
				"TELEMSHIP_QUEUE_DIR":         "/var/lib/telemship/queue",
				"TELEMSHIP_CONNECT_TIMEOUT":   "25s",
				"TELEMSHIP_READ_TIMEOUT":      "5s",
				"TELEMSHIP_POLL_INTERVAL":     "45s",
				"TELEMSHIP_MAX_IN_FLIGHT":     "4",
				"TELEMSHIP_MAX_QUEUE_RECORDS": "200",
				"TELEMSHIP_DEVELOPER_MODE":    "true",
				"TELEMSHIP_COMPRESS":          "false",
				"TELEMSHIP_ONCE":              "true",
			},
			changed: map[string]bool{},
			check: func(t *testing.T, cfg Config) {
				if cfg.EndpointURL != "https://collector.example.com/v2/track" {
					t.Errorf("EndpointURL = %v", cfg.EndpointURL)
				}
				if cfg.QueueDir != "/var/lib/telemship/queue" {
					t.Errorf("QueueDir = %v", cfg.QueueDir)
				}
				if cfg.ConnectTimeout != 25*time.Second {
					t.Errorf("ConnectTimeout = %v", cfg.ConnectTimeout)
				}
				if cfg.ReadTimeout != 5*time.Second {
					t.Errorf("ReadTimeout = %v", cfg.ReadTimeout)
				}
				if cfg.PollInterval != 45*time.Second {
					t.Errorf("PollInterval = %v", cfg.PollInterval)
				}
				if cfg.MaxInFlight != 4 {
					t.Errorf("MaxInFlight = %d", cfg.MaxInFlight)
				}
				if cfg.MaxQueueRecords != 200 {
					t.Errorf("MaxQueueRecords = %d", cfg.MaxQueueRecords)
				}
				if !cfg.DeveloperMode {
					t.Error("DeveloperMode = false")
				}
				if cfg.Compress {
					t.Error("Compress = true")
				}
				if !cfg.Once {
					t.Error("Once = false")
				}
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"TELEMSHIP_QUEUE_DIR":     "/from/env",
				"TELEMSHIP_MAX_IN_FLIGHT": "7",
			},
			changed: map[string]bool{"queue-dir": true},
			check: func(t *testing.T, cfg Config) {
				if cfg.QueueDir != "" {
					t.Errorf("QueueDir = %v, env should not override a set flag", cfg.QueueDir)
				}
				if cfg.MaxInFlight != 7 {
					t.Errorf("MaxInFlight = %d, want 7", cfg.MaxInFlight)
				}
			},
		},
		{
			name: "returns error for invalid duration",
			envVars: map[string]string{
				"TELEMSHIP_READ_TIMEOUT": "eventually",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name: "returns error for invalid int",
			envVars: map[string]string{
				"TELEMSHIP_MAX_IN_FLIGHT": "lots",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			var cfg Config
			err := ApplyEnvConfig(&cfg, tt.changed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyEnvConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
