package main

import (
	"bytes"
	"fmt"
	"os"
	"runtime"

	"image-steganography/crypto"
	"image-steganography/models"

	"golang.org/x/term"
)

// zeroBytes overwrites a byte slice with zeros
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// resolvePassword picks the password from the flag, then STEG_PASSWORD, then
// an interactive prompt when ask is set. An empty result means no encryption.
func resolvePassword(explicit string, ask, confirm bool) (string, error) {
	password := explicit
	if password == "" {
		password = os.Getenv(models.PasswordEnvVar)
	}

	if password == "" && ask {
		var raw []byte
		var err error
		if confirm {
			raw, err = readPasswordWithConfirm("Password: ", "Confirm password: ")
		} else {
			raw, err = readPassword("Password: ")
		}
		if err != nil {
			return "", err
		}
		password = string(raw)
		zeroBytes(raw)
	}

	if password == "" {
		return "", nil
	}
	if err := crypto.ValidatePassword(password); err != nil {
		return "", err
	}
	return password, nil
}

func readPasswordWithConfirm(prompt, confirmPrompt string) ([]byte, error) {
	password, err := readPassword(prompt)
	if err != nil {
		return nil, err
	}

	confirm, err := readPassword(confirmPrompt)
	if err != nil {
		zeroBytes(password)
		return nil, err
	}

	if !bytes.Equal(password, confirm) {
		zeroBytes(password)
		zeroBytes(confirm)
		return nil, fmt.Errorf("passwords do not match")
	}

	zeroBytes(confirm)
	return password, nil
}

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	var password []byte
	var err error

	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		password, err = term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
	} else {
		// stdin is piped, fall back to the controlling terminal
		tty, ttyErr := os.Open("/dev/tty")
		if ttyErr != nil {
			return nil, fmt.Errorf("cannot prompt for password: stdin is piped and /dev/tty is not available. Set %s", models.PasswordEnvVar)
		}
		defer tty.Close()

		password, err = term.ReadPassword(int(tty.Fd()))
		fmt.Fprintln(os.Stderr)
	}

	if err != nil {
		return nil, err
	}
	return password, nil
}
