// Package testutil contains builders shared by package tests for sessions,
// events and run contexts. Not intended for production usage.
package testutil
