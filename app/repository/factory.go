package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory. A nil db selects the in-memory repositories.
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		if f.db == nil {
			f.repos = &Repositories{Preference: NewMemoryPreferenceRepository()}
			return
		}
		f.repos = &Repositories{Preference: NewPreferenceRepository(f.db)}
	})
	return f.repos
}

// GetPreferenceRepository returns the preference repository instance
func (f *Factory) GetPreferenceRepository() PreferenceRepository {
	return f.GetRepositories().Preference
}

// Global factory instance
var globalFactory *Factory

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	globalFactory = NewFactory(db)
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}
