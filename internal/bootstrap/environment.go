package bootstrap

// Environment holds variables handed to the orchestrator on top of the
// launcher's own environment.
type Environment map[string]string

// Set records key=value.
func (e Environment) Set(key, value string) {
	e[key] = value
}
