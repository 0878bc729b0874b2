package pagination

import "math"

// PageDefaultSize is the default page size if not specified
const PageDefaultSize = 10

// PageMaxSize is the maximum allowed page size
const PageMaxSize = 100

// MaxOffset bounds the row offset a page may address.
const MaxOffset = math.MaxInt32
