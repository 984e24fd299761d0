/*
Package ngram implements the in-memory n-gram frequency models behind the
prediction demo: building frequency tables from raw sentences, deriving
next-word probability distributions, greedily completing sentences, and
enumerating the (prefix, highlighted-span) context options shown in the UI.

Every operation is a pure function over its inputs. Tables are rebuilt per
call and never shared, so the package is safe to use from concurrent requests
as long as each request builds its own tables from its own sentence list.
*/
package ngram
