package config

import (
	"log"

	"github.com/spf13/viper"

	"github.com/aegis-iam/aegis/engine/model"
)

// Configuration stores all the configurations
type Configuration struct {
	Policy   PolicyConfiguration
	Security SecurityConfiguration
	Audit    AuditConfiguration
}

// PolicyConfiguration stores the access-model toggles and the
// working-hour window consumed by the rule-based model.
type PolicyConfiguration struct {
	EnableMAC         bool
	EnableDAC         bool
	EnableRBAC        bool
	EnableABAC        bool
	EnableRuBAC       bool
	WorkingHoursStart int
	WorkingHoursEnd   int
}

// SecurityConfiguration stores authentication settings.
type SecurityConfiguration struct {
	LockThreshold int
	// MFAMode selects the second-factor verifier: "static" or "totp".
	MFAMode string
	// StaticToken overrides the built-in static second-factor token.
	StaticToken string
	// Pepper overrides the built-in credential-digest pepper.
	Pepper string
}

// AuditConfiguration stores audit-trail settings.
type AuditConfiguration struct {
	// Retention caps the number of records the in-memory repository
	// keeps; the oldest are dropped first.
	Retention int
}

var config *Configuration

func InitConfig() error {
	viper.AddConfigPath("config")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	// Set default configurations
	viper.SetDefault("policy.enableMAC", true)
	viper.SetDefault("policy.enableDAC", true)
	viper.SetDefault("policy.enableRBAC", true)
	viper.SetDefault("policy.enableABAC", true)
	viper.SetDefault("policy.enableRuBAC", true)
	viper.SetDefault("policy.workingHoursStart", 9)
	viper.SetDefault("policy.workingHoursEnd", 17)
	viper.SetDefault("security.lockThreshold", 3)
	viper.SetDefault("security.mfaMode", "static")
	viper.SetDefault("audit.retention", 10000)

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return err
		}
	}

	config = &Configuration{}
	if err := viper.Unmarshal(config); err != nil {
		return err
	}

	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Configuration {
	return config
}

// PolicyConfig materializes the immutable policy value the evaluator
// consumes from the loaded configuration.
func (c *Configuration) PolicyConfig() model.PolicyConfig {
	return model.PolicyConfig{
		EnableMAC:         c.Policy.EnableMAC,
		EnableDAC:         c.Policy.EnableDAC,
		EnableRBAC:        c.Policy.EnableRBAC,
		EnableABAC:        c.Policy.EnableABAC,
		EnableRuBAC:       c.Policy.EnableRuBAC,
		WorkingHoursStart: c.Policy.WorkingHoursStart,
		WorkingHoursEnd:   c.Policy.WorkingHoursEnd,
	}
}

// GetString retrieves a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean value from the configuration
func GetBool(key string) bool {
	return viper.GetBool(key)
}
