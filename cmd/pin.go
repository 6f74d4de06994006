package cmd

import (
	"crypto/subtle"
	"errors"

	"github.com/PolarWolf314/pinsign/internal/keys"
	"github.com/PolarWolf314/pinsign/internal/utils"
)

var errPinMismatch = errors.New("PINs do not match")

// readPin returns the PIN from --pin, from stdin when --pin-stdin is set, or
// from a hidden terminal prompt. With confirm the prompt is shown twice.
// The caller must Clear the returned PIN.
func readPin(flagValue string, fromStdin, confirm bool) (*keys.Pin, error) {
	if flagValue != "" {
		Logger.Debugf("Using PIN from --pin flag")
		return keys.NewPin(flagValue)
	}

	if fromStdin {
		Logger.Debugf("Reading PIN from stdin")
		raw, err := utils.ReadPinFromStdin()
		if err != nil {
			return nil, err
		}
		return keys.NewPinFromBytes(raw)
	}

	raw, err := utils.ReadPin("Enter PIN: ")
	if err != nil {
		return nil, err
	}

	if confirm {
		again, err := utils.ReadPin("Confirm PIN: ")
		if err != nil {
			wipe(raw)
			return nil, err
		}
		match := subtle.ConstantTimeCompare(raw, again) == 1
		wipe(again)
		if !match {
			wipe(raw)
			return nil, errPinMismatch
		}
	}

	return keys.NewPinFromBytes(raw)
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
