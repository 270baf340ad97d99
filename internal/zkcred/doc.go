// Package zkcred implements the server side of the backup credential math.
//
// Clients commit a blinded Curve25519 point. For each redemption day the server
// derives a scalar bound to (day, level, credential type, server secret) with HKDF and
// returns the blinded point multiplied by that scalar, prefixed with the public
// attributes it was issued for. Receipt presentations are MAC-authenticated records
// produced by the payments side with a shared receipt secret.
package zkcred
