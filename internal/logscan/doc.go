// Package logscan turns a build log into token lists.
//
// The log is read line by line (UTF-8, or UTF-16 with a BOM), lines that
// mention the compiler executable are kept, double quotes are stripped and
// the rest is split on whitespace. Each step is also available as a stage
// function that runs on its own goroutine between two queues.
package logscan
