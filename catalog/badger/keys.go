package badger

// Key prefixes for the book catalog and its secondary indexes.
const (
	bookPrefix       = "bkrec"
	bookAuthorPrefix = "bkaut"
	bookSeriesPrefix = "bkser"
)

// keySep separates key components. Author and series names may contain
// any printable character, so the separator is a NUL byte, which never
// appears in catalog text.
const keySep = "\x00"

// makeBookKey generates a key for a book by id.
func makeBookKey(id string) []byte {
	return []byte(bookPrefix + keySep + id)
}

// makeAuthorKey generates a composite key for the author index.
// Format: prefix:author:id
func makeAuthorKey(author, id string) []byte {
	return []byte(bookAuthorPrefix + keySep + author + keySep + id)
}

// makePartialAuthorKey generates a partial key for author scans.
func makePartialAuthorKey(author string) []byte {
	return []byte(bookAuthorPrefix + keySep + author + keySep)
}

// makeSeriesKey generates a composite key for the series index.
// Format: prefix:series:id
func makeSeriesKey(series, id string) []byte {
	return []byte(bookSeriesPrefix + keySep + series + keySep + id)
}

// makePartialSeriesKey generates a partial key for series scans.
func makePartialSeriesKey(series string) []byte {
	return []byte(bookSeriesPrefix + keySep + series + keySep)
}
