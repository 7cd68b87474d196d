// Package queryspec turns parsed directives into a validated list query.
//
// Build folds the directive sequence into a Spec in two phases. First each
// recognized key is folded by its trait: scalar keys keep the last
// occurrence, list keys (category, notcategory) keep every occurrence in
// order. Then each folded slot runs through its normalizer, which maps the
// raw value onto a closed enum or numeric domain and falls back to the
// documented default on anything it does not recognize.
//
// Cross-field rules run last:
//  1. no include category and no namespace filter is rejected
//  2. more categories than Config.MaxCategories is rejected
//  3. the row count is clamped to [1, Config.MaxResultCount]
//  4. without include categories, date annotation is dropped and the
//     category-based sort methods fall back to OrderCreated
//
// A Spec never carries a value outside its enums, so the compiler can
// treat an unknown OrderMethod as a programming error.
package queryspec
