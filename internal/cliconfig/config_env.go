package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (TELEMSHIP_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("endpoint-url", os.Getenv("TELEMSHIP_ENDPOINT_URL"), &cfg.EndpointURL)
	s.setString("queue-dir", os.Getenv("TELEMSHIP_QUEUE_DIR"), &cfg.QueueDir)

	if err := s.setDuration("connect-timeout", os.Getenv("TELEMSHIP_CONNECT_TIMEOUT"), &cfg.ConnectTimeout); err != nil {
		return err
	}
	if err := s.setDuration("read-timeout", os.Getenv("TELEMSHIP_READ_TIMEOUT"), &cfg.ReadTimeout); err != nil {
		return err
	}
	if err := s.setDuration("poll", os.Getenv("TELEMSHIP_POLL_INTERVAL"), &cfg.PollInterval); err != nil {
		return err
	}

	if err := s.setIntFromString("max-in-flight", os.Getenv("TELEMSHIP_MAX_IN_FLIGHT"), &cfg.MaxInFlight); err != nil {
		return err
	}
	if err := s.setIntFromString("max-queue-records", os.Getenv("TELEMSHIP_MAX_QUEUE_RECORDS"), &cfg.MaxQueueRecords); err != nil {
		return err
	}

	s.setBoolFromString("developer-mode", os.Getenv("TELEMSHIP_DEVELOPER_MODE"), &cfg.DeveloperMode)
	s.setBoolFromString("compress", os.Getenv("TELEMSHIP_COMPRESS"), &cfg.Compress)
	s.setBoolFromString("once", os.Getenv("TELEMSHIP_ONCE"), &cfg.Once)

	return nil
}
