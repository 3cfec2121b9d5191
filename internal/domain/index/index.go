// Package index construye estructuras de búsqueda en memoria a partir de tablas cargadas.
package index

// ByID indexa filas por su id. Si hay ids repetidos gana la última fila.
func ByID[T any](rows []T, id func(T) int64) map[int64]T {
	idx := make(map[int64]T, len(rows))
	for _, r := range rows {
		idx[id(r)] = r
	}
	return idx
}

// ByKey agrupa filas por una clave conservando el orden original dentro de cada grupo.
func ByKey[T any, K comparable](rows []T, key func(T) K) map[K][]T {
	idx := make(map[K][]T)
	for _, r := range rows {
		k := key(r)
		idx[k] = append(idx[k], r)
	}
	return idx
}

// Lookup búsqueda opcional: devuelve el valor cero de T y false si la clave no existe.
// Las vistas usan el valor cero como fila "desconocida" en los joins.
func Lookup[K comparable, T any](idx map[K]T, k K) (T, bool) {
	v, ok := idx[k]
	return v, ok
}
