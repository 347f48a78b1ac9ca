package profiles

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/hornhub/hornhub-service/internal/config"
	"github.com/hornhub/hornhub-service/internal/types"
)

// Directory is the fixed access-code to profile mapping. It is built
// once at startup and never mutated afterwards; access codes are
// bcrypt-hashed at construction so the clear text is not kept around.
type Directory struct {
	entries []entry
}

type entry struct {
	codeHash []byte
	profile  types.Profile
}

// New builds a directory from config entries. An empty access code or
// profile ID is a configuration error.
func New(cfgProfiles []config.Profile) (*Directory, error) {
	entries := make([]entry, 0, len(cfgProfiles))

	for _, p := range cfgProfiles {
		if p.AccessCode == "" || p.ID == "" {
			return nil, fmt.Errorf("profiles: entry %q must have an access code and an id", p.Name)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(p.AccessCode), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("profiles: hash access code for %s: %w", p.ID, err)
		}

		entries = append(entries, entry{
			codeHash: hash,
			profile: types.Profile{
				ID:             p.ID,
				Name:           p.Name,
				ProfilePicture: p.ProfilePicture,
			},
		})
	}

	return &Directory{entries: entries}, nil
}

// Default returns the built-in two-person directory used when the
// config lists no profiles.
func Default() *Directory {
	dir, err := New([]config.Profile{
		{AccessCode: "Hadil", ID: "user1", Name: "had", ProfilePicture: "hadi.jpg"},
		{AccessCode: "Hadi", ID: "user2", Name: "Hadil", ProfilePicture: "hadil.jpg"},
	})
	if err != nil {
		// Static input, cannot fail.
		panic(err)
	}
	return dir
}

// Authenticate resolves an access code to its profile. The returned
// profile is a copy. The scan compares every entry so timing does not
// reveal which code matched.
func (d *Directory) Authenticate(code string) (types.Profile, bool) {
	var (
		matched types.Profile
		found   bool
	)
	for _, e := range d.entries {
		if bcrypt.CompareHashAndPassword(e.codeHash, []byte(code)) == nil {
			matched = e.profile
			found = true
		}
	}
	return matched, found
}

// LookupByID finds the profile with the given ID, resolving a stored
// uploaded_by back to a display name and avatar.
func (d *Directory) LookupByID(id string) (types.Profile, bool) {
	for _, e := range d.entries {
		if e.profile.ID == id {
			return e.profile, true
		}
	}
	return types.Profile{}, false
}
