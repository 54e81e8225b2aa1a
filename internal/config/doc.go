// Package config provides configuration structures and utilities for easyapply.
// It defines the credentials, search settings, answer rules and output
// preferences, and loads them from defaults, a YAML file and the environment.
package config
