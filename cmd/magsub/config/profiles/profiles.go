package profiles

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hectane/go-acl"
	"github.com/nfdi-tools/magsub/cmd/magsub/config/open"
	yaml "gopkg.in/yaml.v3"
)

var ErrProfileStoreNotFound = errors.New("config file is not found")
var ErrCannotCreateConfig = errors.New("cannot create config file")
var ErrCannotUpdateConfig = errors.New("cannot update config file")
var ErrProfileInvalid = errors.New("magsub profile is invalid")

// Portals where submissions can be sent to.
const (
	PortalTest = "test"
	PortalProd = "prod"
)

const (
	queueURLTest = "https://wwwdev.ebi.ac.uk/ena/submit/webin-v2/submit/queue"
	queueURLProd = "https://www.ebi.ac.uk/ena/submit/webin-v2/submit/queue"
)

// ProfileStore is a map from profile name to MagsubProfile.
type ProfileStore map[string]*MagsubProfile

// MagsubProfile holds the Webin account and the target portal of a user.
type MagsubProfile struct {
	// Portal selects the submission endpoint: "test" or "prod".
	Portal string `yaml:"portal"`

	// User is the Webin account name, like "Webin-12345".
	User string `yaml:"user"`

	// Password of the Webin account.
	Password string `yaml:"password"`
}

// Verify MagsubProfile
//
// # Return
//
// nil if it is valid. Otherwise, ErrProfileInvalid error.
func (p *MagsubProfile) Verify() error {
	if p.Portal != PortalTest && p.Portal != PortalProd {
		return fmt.Errorf(
			`%w: portal should be "%s" or "%s", but "%s"`,
			ErrProfileInvalid, PortalTest, PortalProd, p.Portal,
		)
	}
	if p.User == "" {
		return fmt.Errorf("%w: user is not set", ErrProfileInvalid)
	}
	if p.Password == "" {
		return fmt.Errorf("%w: password is not set", ErrProfileInvalid)
	}

	return nil
}

// IsTest reports whether the profile points at the test portal.
func (p *MagsubProfile) IsTest() bool {
	return p.Portal != PortalProd
}

// QueueURL returns the submission queue endpoint of the profile's portal.
func (p *MagsubProfile) QueueURL() string {
	if p.IsTest() {
		return queueURLTest
	}
	return queueURLProd
}

// LoadProfileStore loads profile store from file.
func LoadProfileStore(filepath string) (ProfileStore, error) {
	buf, err := os.ReadFile(filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrProfileStoreNotFound, filepath)
		}
		return nil, err
	}
	return Unmarshall(buf)
}

// Unmarshall profile store from yaml in byte array.
func Unmarshall(buf []byte) (ProfileStore, error) {
	ret := map[string]*MagsubProfile{}
	err := yaml.Unmarshal(buf, &ret)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Save profile store to file.
func (ps *ProfileStore) Save(path string) error {
	saving := false

	if err := os.MkdirAll(filepath.Dir(path), os.FileMode(0700)); err != nil {
		return err
	}

	bkpath := path + ".backup"
	bk, err := open.NewSafeFile(bkpath)
	if err != nil {
		return err
	}
	defer func() {
		if !saving {
			os.Remove(bkpath)
		}
	}()
	defer bk.Close()

	f, err := os.OpenFile(path, os.O_RDWR, os.FileMode(0600))
	if err == nil {
		// In case of the existing file with loose permissions,
		// enforce permission to 0600.
		if err := acl.Chmod(path, os.FileMode(0600)); err != nil {
			return err
		}
	} else {
		if os.IsPermission(err) {
			return fmt.Errorf(
				"%w, because no permission to write file at %s",
				ErrCannotUpdateConfig, path,
			)
		} else if os.IsNotExist(err) {
			f_, err_ := open.NewSafeFile(path)
			if err_ != nil {
				return fmt.Errorf(
					"%w: cannot create a file at %s",
					ErrCannotCreateConfig, path,
				)
			}
			f = f_
		} else {
			return err
		}
	}
	defer f.Close()

	if err := bk.Truncate(0); err != nil {
		return err
	}
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	if _, err := io.Copy(bk, f); err != nil {
		return err
	}

	saving = true
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	if err := f.Truncate(0); err != nil {
		return err
	}
	buf, err := yaml.Marshal(ps)
	if err != nil {
		return err
	}
	_, err = f.Write(buf)

	if err == nil {
		saving = false
	}
	return err
}
