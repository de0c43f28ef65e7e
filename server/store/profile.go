package store

import (
	"strconv"
	"sync"

	"github.com/caruhq/caru/server/models"
)

// ProfileStore owns the singleton user profile and its emergency-contact
// list. net/http serves requests concurrently, so every read-modify-write
// runs under the store mutex.
type ProfileStore struct {
	mu      sync.Mutex
	profile models.UserProfile
}

func NewProfileStore(seed models.UserProfile) *ProfileStore {
	now := models.Now()
	seed.CreatedAt = now
	seed.UpdatedAt = now

	if seed.ID == "" {
		seed.ID = "1"
	}
	if seed.EmergencyContacts == nil {
		seed.EmergencyContacts = []models.EmergencyContact{}
	}

	return &ProfileStore{profile: seed}
}

// Profile returns a copy of the current profile, so callers can't mutate
// store state behind the mutex.
func (store *ProfileStore) Profile() models.UserProfile {
	store.mu.Lock()
	defer store.mu.Unlock()

	return store.profileCopy()
}

// ApplyPatch overwrites each field present in the patch & stamps updatedAt.
func (store *ProfileStore) ApplyPatch(patch models.ProfilePatch) models.UserProfile {
	store.mu.Lock()
	defer store.mu.Unlock()

	if patch.Name != nil {
		store.profile.Name = *patch.Name
	}
	if patch.Phone != nil {
		store.profile.Phone = *patch.Phone
	}
	if patch.Email != nil {
		store.profile.Email = *patch.Email
	}
	if patch.NotificationPreferences != nil {
		store.profile.NotificationPreferences = *patch.NotificationPreferences
	}
	store.profile.UpdatedAt = models.Now()

	return store.profileCopy()
}

// AddContact appends the contact with a server-assigned sequential id,
// ignoring any id the client sent.
func (store *ProfileStore) AddContact(contact models.EmergencyContact) models.EmergencyContact {
	store.mu.Lock()
	defer store.mu.Unlock()

	contact.ID = strconv.Itoa(len(store.profile.EmergencyContacts) + 1)
	store.profile.EmergencyContacts = append(store.profile.EmergencyContacts, contact)
	store.profile.UpdatedAt = models.Now()

	return contact
}

// UpdateContact patches the first contact whose id matches. Returns
// ErrNotFound if no contact has the given id.
func (store *ProfileStore) UpdateContact(contactID string, patch models.ContactPatch) (models.EmergencyContact, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for i := range store.profile.EmergencyContacts {
		contact := &store.profile.EmergencyContacts[i]
		if contact.ID != contactID {
			continue
		}

		if patch.Name != nil {
			contact.Name = *patch.Name
		}
		if patch.Phone != nil {
			contact.Phone = *patch.Phone
		}
		if patch.Email != nil {
			contact.Email = *patch.Email
		}
		if patch.Relationship != nil {
			contact.Relationship = *patch.Relationship
		}
		if patch.IsPrimary != nil {
			contact.IsPrimary = *patch.IsPrimary
		}
		store.profile.UpdatedAt = models.Now()

		return *contact, nil
	}

	return models.EmergencyContact{}, ErrNotFound
}

// DeleteContact removes every contact with the given id & stamps
// updatedAt. Deleting an unknown id is a no-op, not an error.
func (store *ProfileStore) DeleteContact(contactID string) {
	store.mu.Lock()
	defer store.mu.Unlock()

	kept := store.profile.EmergencyContacts[:0]
	for _, contact := range store.profile.EmergencyContacts {
		if contact.ID != contactID {
			kept = append(kept, contact)
		}
	}
	store.profile.EmergencyContacts = kept
	store.profile.UpdatedAt = models.Now()
}

func (store *ProfileStore) profileCopy() models.UserProfile {
	profile := store.profile
	profile.EmergencyContacts = make([]models.EmergencyContact, len(store.profile.EmergencyContacts))
	copy(profile.EmergencyContacts, store.profile.EmergencyContacts)

	return profile
}
