package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// URL syntax and file accessibility. The configPath argument specifies the
// config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateStorage(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.User == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "User",
			Message:  "no user set; publish requires --user",
		})
	}

	s3 := c.Storage.S3
	if c.Storage.Driver == DriverS3 && (s3.AccessKeyID == "") != (s3.SecretKey == "") {
		warnings = append(warnings, ValidationWarning{
			Category: "Storage",
			Item:     "s3",
			Message:  "access_key_id and secret_key must be set together; falling back to the default credential chain",
		})
	}

	return warnings
}

// validateFileAccess checks the config file and the data and image directories.
func (c *Config) validateFileAccess(configPath string) error {
	fields := []error{
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	}
	if c.Storage.Driver == DriverLocal {
		fields = append(fields, criterio.Run("storage.local.dir", c.Storage.Local.Dir, isDirectoryOrNotExist))
	}
	return criterio.ValidateStruct(fields...)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// validateStorage checks the URLs used to build public image links.
func (c *Config) validateStorage() error {
	var errs criterio.FieldErrorsBuilder

	urls := map[string]string{
		"storage.local.base_url": c.Storage.Local.BaseURL,
		"storage.s3.endpoint":    c.Storage.S3.Endpoint,
		"storage.s3.base_url":    c.Storage.S3.BaseURL,
	}
	for field, raw := range urls {
		if raw == "" {
			continue
		}
		if err := isAbsoluteURL(raw); err != nil {
			errs = errs.Append(field, err)
		}
	}

	if dir := c.Storage.Local.Dir; dir != "" && !filepath.IsAbs(dir) {
		errs = errs.Append("storage.local.dir", fmt.Errorf("must be an absolute path: %s", dir))
	}

	return errs.ToError()
}

func isAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("url %q must include a scheme and host", raw)
	}
	return nil
}
