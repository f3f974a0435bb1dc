package render

const tsXOR = `type Prettify<T> = {[K in keyof T]: T[K]} & {};
type Without<T, U> = {[P in Exclude<keyof T, keyof U>]?: never};
type XOR<T, U> = (T | U) extends object ? (Prettify<Without<T, U> & U>) | (Prettify<Without<U, T> & T>): T | U;
`

const jsXOR = `/**
*@template T
*@typedef {{[K in keyof T]: T[K]} & {}} Prettify
**/
/**
*@template T, U
*@typedef {{[P in Exclude<keyof T, keyof U>]?: never}} Without
**/
/**
*@template T, U
*@typedef {(T | U) extends object ? (Prettify<Without<T, U> & U>) | (Prettify<Without<U, T> & T>): T | U} XOR
**/
`

func xorHelper(d Dialect) string {
	if d == JSDoc {
		return jsXOR
	}
	return tsXOR
}
