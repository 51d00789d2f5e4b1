// Package config loads application configuration from the environment.
//
// A .env file is honored in development; real environment variables always
// win. Validation happens once at startup so the rest of the process can
// trust the values.
package config
