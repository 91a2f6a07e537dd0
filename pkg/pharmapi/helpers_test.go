package pharmapi

import "sync"

// mapStore is an in-memory TokenStore for tests.
type mapStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newMapStore() *mapStore {
	return &mapStore{values: make(map[string]string)}
}

func (s *mapStore) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

func (s *mapStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *mapStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

func (s *mapStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

// seedSession fills the store with a full authenticated session.
func seedSession(s *mapStore) {
	s.Set(KeyAccessToken, "access-token")
	s.Set(KeyRefreshToken, "refresh-token")
	s.Set(KeyUserRole, "pharmacist")
	s.Set(KeyUserID, "42")
	s.Set(KeyUserName, "Testy")
	s.Set(KeyUserEmail, "testy@pharmacy.test")
	s.Set(KeyRoleID, "3")
	s.Set(KeyBranchID, "9")
}

// fakeNavigator records redirects for assertions.
type fakeNavigator struct {
	location    string
	navigations []string
}

func (n *fakeNavigator) Location() string { return n.location }

func (n *fakeNavigator) Navigate(path string) {
	n.navigations = append(n.navigations, path)
	n.location = path
}
