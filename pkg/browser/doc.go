// Package browser runs the headless Chromium session used for a scrape.
//
// Launch starts an isolated browser through rod's launcher (sandbox disabled
// when configured, optional custom binary). Each NewPage call opens a tab with
// the fixed viewport and user agent, optionally patched by go-rod/stealth.
// The Page interface exposes only the primitives the navigator needs, so the
// navigation sequence can be tested against a fake.
package browser
