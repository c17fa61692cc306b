package auth

// DummyHash exposes the hash compared against for unknown usernames.
func DummyHash(s *Service) string {
	return s.dummyHash
}
