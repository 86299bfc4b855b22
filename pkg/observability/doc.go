/*
Package observability provides Prometheus collectors for the katsuyo engine.

Metrics owns its own registry so that several engines (and tests) can coexist in one
process. Every method is safe on a nil *Metrics, which records nothing.
*/
package observability
