// Package xlsxio is the table I/O boundary: it reads named sheets from
// xlsx workbooks into tables and encodes result tables back to xlsx or
// CSV. The pipeline itself never touches container formats; it consumes
// and produces tables with named columns.
package xlsxio
