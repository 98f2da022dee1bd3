// Package cmd contains the service binaries: students and groups (the two
// store services), university (the aggregation gateway), and multiservice
// (the whole deployment in one process for local development).
package cmd
