// Package log provides slog loggers that never print credentials.
//
// The SecureHandler masks:
//   - LinkedIn passwords and session cookies (li_at, JSESSIONID)
//   - OpenAI API keys, by key name and by the "sk-" value pattern
//   - bearer and JWT tokens
//
// Email addresses logged under "email" keep their first character and
// domain so runs for different accounts can still be told apart.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//	logger.Info("logging in", "email", cfg.Email) // email=j***@example.com
package log
