// Package loader reads a corpus directory into core.Documents.
//
// Files are matched by extension, read as UTF-8 and identified by their path
// relative to the corpus root using forward slashes. Headings are extracted
// from the parsed Markdown tree. A leading YAML front matter block supplies
// the document title and is excluded from heading extraction.
package loader
