package ports

// PasswordHasher define el puerto para el hash de contraseñas (función unidireccional).
// El adaptador por defecto usa bcrypt; los tests pueden inyectar uno determinista.
type PasswordHasher interface {
	// Hash devuelve el hash de plain listo para persistir.
	Hash(plain string) (string, error)
	// Compare devuelve nil si plain corresponde a hash.
	Compare(hash, plain string) error
}
