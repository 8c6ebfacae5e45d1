// Package integration_tests groups end-to-end tests that run real pipeline
// files through the app. Each subdirectory covers one area of behaviour.
package integration_tests
