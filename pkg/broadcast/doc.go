// Package broadcast aligns per-item parameters with a list of items.
//
// A Value holds either a single value that applies to every item or a sequence
// with one value per item. Callers index it positionally without caring which
// form was supplied, which lets one scalar setting stand in for a per-item list.
//
// # Usage
//
//	urls := broadcast.Of("https://a.example/1.jpg", "https://a.example/2.jpg")
//	names := broadcast.Strings([]string{"first", "second"})
//	folder := broadcast.String("images", broadcast.TrimFolder())
//
//	// Fail fast before any I/O if a per-item list does not match the items.
//	if err := broadcast.Validate(urls,
//		broadcast.Param("filenames", names),
//		broadcast.Param("subfolders", folder),
//	); err != nil {
//		return err // *broadcast.LengthError, errors.Is(err, broadcast.ErrLengthMismatch)
//	}
//
//	for i := range urls.Len() {
//		fmt.Println(urls.Get(i), names.Get(i), folder.Get(i))
//	}
//
// # Compatibility
//
// Two values are compatible when either of them is a scalar, or when both are
// sequences of equal length. Compatibility is checked through the non-generic
// Sizer interface so values of different element types can be compared.
package broadcast
