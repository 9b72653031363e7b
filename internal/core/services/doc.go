// Package services holds the document pipeline behind the driving ports.
//
// A document moves through stages, each stored as an artifact keyed by
// document ID: DocumentService ingests and normalises raw files,
// CleaningService splits the text into cleaned sentences, and
// SummaryOrchestrator picks the extractive, abstractive or hybrid path and
// writes the summary stage. TranslationService works on whatever stage the
// caller names. SettingsService sits beside the pipeline and owns the
// configuration.
//
// Services depend only on driven ports, so every backend is swappable in
// tests with the in-memory adapters.
package services
