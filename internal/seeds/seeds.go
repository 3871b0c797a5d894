package seeds

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/InkwellLabs/Inkwell-Backend/internal/auth"
	"github.com/InkwellLabs/Inkwell-Backend/internal/db"
	"github.com/InkwellLabs/Inkwell-Backend/internal/slugify"
	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Fixture is the YAML seed file shape.
type Fixture struct {
	Users []struct {
		Name     string `yaml:"name"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		Role     string `yaml:"role"`
	} `yaml:"users"`
	Authors []struct {
		Name  string `yaml:"name"`
		Bio   string `yaml:"bio"`
		Email string `yaml:"email"`
	} `yaml:"authors"`
	Tags []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"tags"`
	Stories []struct {
		Title     string `yaml:"title"`
		Content   string `yaml:"content"`
		Excerpt   string `yaml:"excerpt"`
		Published bool   `yaml:"published"`
	} `yaml:"stories"`
}

// Load parses a seed fixture file.
func Load(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &f, nil
}

// SeedAll loads the fixture and inserts anything not already present.
// Existing rows are skipped, so re-running is safe.
func SeedAll(path string) error {
	f, err := Load(path)
	if err != nil {
		return err
	}

	if err := seedUsers(f); err != nil {
		return err
	}
	return seedContent(f)
}

func seedUsers(f *Fixture) error {
	for _, u := range f.Users {
		var existing auth.User
		err := db.DB.First(&existing, "email = ?", u.Email).Error
		if err == nil {
			log.Printf("user exists, skipping: %s", u.Email)
			continue
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("DB error on user %s: %w", u.Email, err)
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", u.Email, err)
		}

		user := auth.User{
			ID:             uuid.NewString(),
			Name:           u.Name,
			Email:          u.Email,
			HashedPassword: string(hashed),
			Role:           u.Role,
			Active:         true,
		}
		if err := db.DB.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.Email, err)
		}
	}
	log.Printf("seeded %d users", len(f.Users))
	return nil
}

func seedContent(f *Fixture) error {
	for _, a := range f.Authors {
		if err := createIfMissing("content.authors", slugify.Make(a.Name), map[string]any{
			"name": a.Name, "bio": a.Bio, "email": a.Email,
		}); err != nil {
			return err
		}
	}
	for _, t := range f.Tags {
		if err := createIfMissing("content.tags", slugify.Make(t.Name), map[string]any{
			"name": t.Name, "description": t.Description,
		}); err != nil {
			return err
		}
	}
	for _, s := range f.Stories {
		if err := createIfMissing("content.stories", slugify.Make(s.Title), map[string]any{
			"title": s.Title, "content": s.Content, "excerpt": s.Excerpt, "published": s.Published,
		}); err != nil {
			return err
		}
	}
	log.Printf("seeded %d authors, %d tags, %d stories", len(f.Authors), len(f.Tags), len(f.Stories))
	return nil
}

func createIfMissing(table, slug string, attrs map[string]any) error {
	var n int64
	if err := db.DB.Table(table).Where("slug = ?", slug).Count(&n).Error; err != nil {
		return fmt.Errorf("DB error on %s/%s: %w", table, slug, err)
	}
	if n > 0 {
		log.Printf("row exists, skipping: %s/%s", table, slug)
		return nil
	}
	now := time.Now()
	attrs["slug"] = slug
	attrs["created_at"] = now
	attrs["updated_at"] = now
	if err := db.DB.Table(table).Create(&attrs).Error; err != nil {
		return fmt.Errorf("failed to seed %s/%s: %w", table, slug, err)
	}
	return nil
}
