// Package services implements the driving port interfaces: the three-tier
// validator, document operations, the catalog and settings.
//
// Services reach storage and codecs only through driven ports, which are
// injected by the caller.
package services
