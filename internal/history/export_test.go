package history

// BumpSchemaVersionForTest simulates a database written by a newer build.
func BumpSchemaVersionForTest(s *Store) error {
	_, err := s.db.Exec("UPDATE schema_version SET version = version + 1")
	return err
}
