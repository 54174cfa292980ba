// Package hashcheck verifies the checksum of a file on a host, typically a
// node binary against its release checksum.
package hashcheck

import (
	"bufio"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/vertti/hostverify/pkg/check"
	"github.com/vertti/hostverify/pkg/host"
)

// Algorithm is a supported hash algorithm.
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	SHA384 Algorithm = "sha384"
	SHA512 Algorithm = "sha512"
	BLAKE3 Algorithm = "blake3"
)

// ParseAlgorithm accepts an algorithm name in any case.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(s)); a {
	case SHA256, SHA384, SHA512, BLAKE3:
		return a, nil
	case "":
		return SHA256, nil
	}
	return "", fmt.Errorf("unsupported algorithm %q", s)
}

// NewHasher returns a fresh hash for the algorithm.
func (a Algorithm) NewHasher() hash.Hash {
	switch a {
	case SHA384:
		return sha512.New384()
	case SHA512:
		return sha512.New()
	case BLAKE3:
		return blake3.New()
	default:
		return sha256.New()
	}
}

// HexLength is the length of a hex digest.
func (a Algorithm) HexLength() int {
	switch a {
	case SHA512:
		return 128
	case SHA384:
		return 96
	default:
		return 64
	}
}

// Check hashes Path on the host and compares it with Expected, or with the
// entry for the file in ChecksumFile (a sha256sum or BSD style listing read
// from the local machine).
type Check struct {
	Path         string
	Expected     string
	Algorithm    Algorithm // default sha256
	ChecksumFile string
	Host         host.Host
}

// Run executes the hash check.
func (c *Check) Run() check.Result {
	result := check.Result{
		Name: "hash: " + c.Path,
	}

	algorithm := c.Algorithm
	if algorithm == "" {
		algorithm = SHA256
	}

	expected := c.Expected
	if c.ChecksumFile != "" {
		var err error
		expected, algorithm, err = lookupChecksum(c.ChecksumFile, c.Path)
		if err != nil {
			return result.Fail("checksum file", err)
		}
	}
	if expected == "" {
		return result.Failf("expected hash is required")
	}
	expected = strings.ToLower(expected)

	if err := validateHash(expected, algorithm); err != nil {
		return result.Fail("invalid hash", err)
	}

	f, err := c.Host.Open(c.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return result.Fail("not found", nil)
	}
	if err != nil {
		return result.Fail("probe failed", err)
	}
	defer func() { _ = f.Close() }()

	h := algorithm.NewHasher()
	if _, err := io.Copy(h, f); err != nil {
		return result.Fail("read failed", err)
	}
	actual := hex.EncodeToString(h.Sum(nil))

	result.AddDetailf("algorithm: %s", algorithm)
	if actual != expected {
		result.AddDetailf("expected: %s", expected)
		result.AddDetailf("actual: %s", actual)
		return result.Failf("%s mismatch", algorithm)
	}

	result.AddDetailf("hash: %s", actual)
	return result.Pass()
}

func validateHash(s string, algorithm Algorithm) error {
	if _, err := hex.DecodeString(s); err != nil {
		return errors.New("not valid hexadecimal")
	}
	if want := algorithm.HexLength(); len(s) != want {
		return fmt.Errorf("expected %d characters for %s, got %d", want, algorithm, len(s))
	}
	return nil
}

var bsdLine = regexp.MustCompile(`^(SHA256|SHA384|SHA512|BLAKE3)\s+\((.+)\)\s*=\s*([a-fA-F0-9]+)$`)

// lookupChecksum finds the entry for target in a checksum listing. GNU
// lines carry no algorithm name, so it is inferred from the digest length.
func lookupChecksum(listing, target string) (string, Algorithm, error) {
	f, err := os.Open(listing) //nolint:gosec // operator-supplied checksum file
	if err != nil {
		return "", "", err
	}
	defer func() { _ = f.Close() }()

	base := filepath.Base(target)
	matches := func(name string) bool { return name == base || name == target }

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if m := bsdLine.FindStringSubmatch(line); m != nil {
			if matches(m[2]) {
				return m[3], Algorithm(strings.ToLower(m[1])), nil
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 || !matches(strings.TrimPrefix(fields[len(fields)-1], "*")) {
			continue
		}
		switch len(fields[0]) {
		case 128:
			return fields[0], SHA512, nil
		case 96:
			return fields[0], SHA384, nil
		default:
			return fields[0], SHA256, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", "", err
	}

	return "", "", fmt.Errorf("%s not listed in %s", base, listing)
}
