// Package validation provides input validation utilities to prevent security vulnerabilities
// such as command injection, path traversal, and other input-based attacks.
//
// Manifest values end up as apt-get arguments, SSH config lines, shell
// startup-file content, and git config entries. Every provider validates
// its section here before any step runs.
package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Common validation errors.
var (
	ErrEmptyInput          = errors.New("input cannot be empty")
	ErrInvalidPackageName  = errors.New("invalid package name")
	ErrInvalidNpmPackage   = errors.New("invalid npm package name")
	ErrPathTraversal       = errors.New("path traversal detected")
	ErrInvalidPath         = errors.New("invalid path")
	ErrCommandInjection    = errors.New("potential command injection detected")
	ErrInvalidHostname     = errors.New("invalid hostname")
	ErrInvalidUsername     = errors.New("invalid username")
	ErrNewlineInjection    = errors.New("newline injection detected")
	ErrInvalidGitConfig    = errors.New("invalid git config value")
	ErrInvalidSSHParameter = errors.New("invalid SSH parameter")
	ErrInvalidURL          = errors.New("invalid URL")
	ErrInvalidEnvName      = errors.New("invalid environment variable name")
	ErrInvalidAliasName    = errors.New("invalid alias name")
)

// Compiled regex patterns for validation (compiled once for performance).
var (
	// packageNameRegex matches valid apt package names: alphanumeric, hyphens, underscores, dots, plus
	// Examples: "git", "build-essential", "python3.11", "g++"
	packageNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._+-]*$`)

	// npmPackageRegex matches valid npm package names (scoped or unscoped with optional @version)
	// Examples: "lodash", "@types/node", "@anthropic-ai/claude-code@2.0.0", "pnpm@10.24.0"
	npmPackageRegex = regexp.MustCompile(`^(@[a-z0-9][a-z0-9._-]*/)?[a-z0-9][a-z0-9._-]*(@[a-zA-Z0-9._-]+)?$`)

	// hostnameRegex matches valid hostnames (including wildcards for SSH)
	// Examples: "github.com", "*.example.com", "192.168.1.1"
	hostnameRegex = regexp.MustCompile(`^(\*\.)?[a-zA-Z0-9][a-zA-Z0-9._*-]*$`)

	// usernameRegex matches POSIX account names
	// Examples: "deploy", "ci-runner", "svc_backup"
	usernameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_-]*\$?$`)

	// gitConfigSafeRegex matches safe git config values (no newlines, no control chars)
	gitConfigSafeRegex = regexp.MustCompile(`^[^\x00-\x1f\x7f]*$`)

	// urlRegex matches HTTP/HTTPS URLs for installer scripts
	// Examples: "https://starship.rs/install.sh", "https://get.docker.com"
	urlRegex = regexp.MustCompile(`^https?://[a-zA-Z0-9][a-zA-Z0-9._/-]*$`)

	// envNameRegex matches environment variable names
	// Examples: "EDITOR", "GOPATH", "_private"
	envNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

	// aliasNameRegex matches shell and git alias names
	// Examples: "ll", "gst", "co"
	aliasNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

	// shellMetaChars contains shell metacharacters that could enable injection
	shellMetaChars = []string{";", "|", "&", "$", "`", "(", ")", "{", "}", "<", ">", "\n", "\r", "\\"}
)

// ValidatePackageName validates an apt package name.
// Returns an error if the name is empty or contains invalid characters.
func ValidatePackageName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}

	if len(name) > 256 {
		return fmt.Errorf("%w: name too long (max 256 characters)", ErrInvalidPackageName)
	}

	if !packageNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q contains invalid characters", ErrInvalidPackageName, name)
	}

	if containsShellMeta(name) {
		return fmt.Errorf("%w: %q contains shell metacharacters", ErrCommandInjection, name)
	}

	return nil
}

// ValidateCommandName validates a bare executable name destined for a
// generated script. Command names share the package-name character set.
func ValidateCommandName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}

	if !packageNameRegex.MatchString(name) {
		return fmt.Errorf("%w: command %q contains invalid characters", ErrCommandInjection, name)
	}

	if containsShellMeta(name) {
		return fmt.Errorf("%w: command %q contains shell metacharacters", ErrCommandInjection, name)
	}

	return nil
}

// ValidateNpmPackage validates an npm package name with optional version.
// Supports scoped packages (@org/pkg) and version suffixes (@version).
// Examples: "lodash", "@types/node", "@anthropic-ai/claude-code@2.0.0", "pnpm@10.24.0"
func ValidateNpmPackage(name string) error {
	if name == "" {
		return ErrEmptyInput
	}

	if len(name) > 256 {
		return fmt.Errorf("%w: package name too long", ErrInvalidNpmPackage)
	}

	// Convert to lowercase for validation (npm packages are case-insensitive)
	lower := strings.ToLower(name)
	if !npmPackageRegex.MatchString(lower) {
		return fmt.Errorf("%w: %q is not a valid npm package name", ErrInvalidNpmPackage, name)
	}

	if containsShellMeta(name) {
		return fmt.Errorf("%w: %q contains shell metacharacters", ErrCommandInjection, name)
	}

	return nil
}

// ValidateHostname validates a hostname for SSH configuration.
func ValidateHostname(hostname string) error {
	if hostname == "" {
		return ErrEmptyInput
	}

	if len(hostname) > 253 {
		return fmt.Errorf("%w: hostname too long", ErrInvalidHostname)
	}

	if !hostnameRegex.MatchString(hostname) {
		return fmt.Errorf("%w: %q contains invalid characters", ErrInvalidHostname, hostname)
	}

	if containsShellMeta(hostname) {
		return fmt.Errorf("%w: %q contains shell metacharacters", ErrCommandInjection, hostname)
	}

	return nil
}

// ValidateUsername validates a POSIX account name (docker group members,
// SSH users).
func ValidateUsername(name string) error {
	if name == "" {
		return ErrEmptyInput
	}

	if len(name) > 32 {
		return fmt.Errorf("%w: username too long (max 32 characters)", ErrInvalidUsername)
	}

	if !usernameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q is not a valid account name", ErrInvalidUsername, name)
	}

	return nil
}

// ValidateGitConfigValue validates a git config value for injection attacks.
func ValidateGitConfigValue(value string) error {
	// Check for newlines which could inject additional config lines
	if strings.ContainsAny(value, "\n\r") {
		return fmt.Errorf("%w: git config value contains newlines", ErrNewlineInjection)
	}

	// Check for control characters
	if !gitConfigSafeRegex.MatchString(value) {
		return fmt.Errorf("%w: contains control characters", ErrInvalidGitConfig)
	}

	return nil
}

// ValidateSSHParameter validates generic SSH config parameters.
func ValidateSSHParameter(value string) error {
	if value == "" {
		return nil
	}

	// Check for newlines (could inject additional config)
	if strings.ContainsAny(value, "\n\r") {
		return fmt.Errorf("%w: parameter contains newlines", ErrNewlineInjection)
	}

	// Check for control characters
	if !gitConfigSafeRegex.MatchString(value) {
		return fmt.Errorf("%w: contains control characters", ErrInvalidSSHParameter)
	}

	return nil
}

// ValidateURL validates an HTTP/HTTPS URL for installer scripts.
func ValidateURL(urlStr string) error {
	if urlStr == "" {
		return ErrEmptyInput
	}

	if len(urlStr) > 2048 {
		return fmt.Errorf("%w: URL too long", ErrInvalidURL)
	}

	if !urlRegex.MatchString(urlStr) {
		return fmt.Errorf("%w: %q must be a valid HTTP/HTTPS URL", ErrInvalidURL, urlStr)
	}

	if containsShellMeta(urlStr) {
		return fmt.Errorf("%w: %q contains shell metacharacters", ErrCommandInjection, urlStr)
	}

	return nil
}

// ValidateEnvName validates an environment variable name for the shell
// provider.
func ValidateEnvName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}

	if len(name) > 128 {
		return fmt.Errorf("%w: name too long", ErrInvalidEnvName)
	}

	if !envNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q contains invalid characters", ErrInvalidEnvName, name)
	}

	return nil
}

// ValidateEnvValue validates an environment variable or alias value
// before it is quoted into a shell startup file.
func ValidateEnvValue(value string) error {
	if strings.ContainsAny(value, "\n\r") {
		return fmt.Errorf("%w: value contains newlines", ErrNewlineInjection)
	}

	if strings.ContainsRune(value, '\x00') {
		return fmt.Errorf("%w: value contains null byte", ErrCommandInjection)
	}

	return nil
}

// ValidateAliasName validates a shell or git alias name.
func ValidateAliasName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}

	if len(name) > 64 {
		return fmt.Errorf("%w: alias name too long", ErrInvalidAliasName)
	}

	if !aliasNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q contains invalid characters", ErrInvalidAliasName, name)
	}

	return nil
}

// ValidatePath validates a file path and prevents path traversal attacks.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyInput
	}

	// Check for null bytes
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: path contains null byte", ErrInvalidPath)
	}

	// Check for path traversal sequences
	if containsPathTraversal(path) {
		return fmt.Errorf("%w: %q contains traversal sequence", ErrPathTraversal, path)
	}

	return nil
}

// containsShellMeta checks if a string contains shell metacharacters.
func containsShellMeta(s string) bool {
	for _, char := range shellMetaChars {
		if strings.Contains(s, char) {
			return true
		}
	}
	return false
}

// containsPathTraversal checks for common path traversal patterns.
func containsPathTraversal(path string) bool {
	// Normalize the path to catch encoded traversal attempts
	normalized := filepath.Clean(path)

	// Check for ".." sequences in the normalized path
	segments := strings.Split(normalized, string(filepath.Separator))
	for _, seg := range segments {
		if seg == ".." {
			return true
		}
	}

	// Check for URL-encoded traversal
	if strings.Contains(path, "%2e%2e") || strings.Contains(path, "%2E%2E") {
		return true
	}

	return false
}
