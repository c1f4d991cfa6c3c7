package models

// All lists every model handled by AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&AdminModel{},
		&WorkModel{},
		&BlogModel{},
		&SkillModel{},
		&CVModel{},
		&ContactModel{},
	}
}
